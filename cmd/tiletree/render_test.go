package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/tiletree/internal/commands"
	"github.com/1broseidon/tiletree/internal/layoutfile"
	"github.com/1broseidon/tiletree/internal/tree"
)

func sampleFile() *layoutfile.File {
	return &layoutfile.File{Outputs: []layoutfile.Output{{
		Name:   "DP-1",
		Rect:   tree.Rect{Width: 1920, Height: 1080},
		Active: "1",
		Workspaces: []layoutfile.Workspace{{
			Name:   "1",
			Layout: "splith",
			Tiling: []layoutfile.Node{{
				ID:     4,
				Name:   "editor",
				Layout: "tabbed",
				Children: []layoutfile.Node{
					{ID: 5, Name: "vim", WindowID: 0x400001, Marks: []string{"code"}, Focused: true},
				},
			}},
			Floating: []layoutfile.Node{{ID: 6, Name: "calc"}},
		}},
	}}}
}

func TestRenderTree(t *testing.T) {
	var buf bytes.Buffer
	renderTree(&buf, sampleFile(), 0)

	want := strings.Join([]string{
		"output DP-1 1920x1080+0+0",
		"  workspace 1 [splith] (active)",
		`    #4 "editor" [tabbed]`,
		`      #5 "vim" window=0x400001 marks=code *`,
		"    floating:",
		`      #6 "calc"`,
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderTree_Truncates(t *testing.T) {
	var buf bytes.Buffer
	renderTree(&buf, sampleFile(), 20)
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if len(line) > 20 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
	if !strings.Contains(buf.String(), "...") {
		t.Fatalf("expected truncation marker in %q", buf.String())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		status commands.Status
		want   int
	}{
		{commands.StatusSuccess, 0},
		{commands.StatusFailure, 1},
		{commands.StatusInvalid, 2},
	}
	for _, tt := range tests {
		if got := exitCode(&commands.Result{Status: tt.status}); got != tt.want {
			t.Fatalf("exitCode(%s) = %d, want %d", tt.status, got, tt.want)
		}
	}
}
