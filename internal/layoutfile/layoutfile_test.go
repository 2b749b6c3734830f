package layoutfile

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/tiletree/internal/seat"
	"github.com/1broseidon/tiletree/internal/tree"
)

const sample = `
outputs:
  - name: DP-1
    rect: {x: 0, y: 0, width: 1920, height: 1080}
    active: "2"
    workspaces:
      - name: "1"
        layout: splitv
        tiling:
          - name: editor
            layout: tabbed
            children:
              - name: vim
                window_id: 0x400001
                marks: [code]
                focused: true
              - name: shell
      - name: "2"
        tiling:
          - name: browser
            fullscreen: output
        floating:
          - name: calc
  - name: HDMI-1
    rect: {x: 1920, y: 0, width: 1280, height: 1024}
    workspaces:
      - name: "3"
`

func mustBuild(t *testing.T, data string) (*tree.Root, *tree.Container) {
	t.Helper()
	f, err := Parse([]byte(data), FormatYAML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root, focused, err := Build(f, tree.LayoutNone)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return root, focused
}

func TestBuild_Sample(t *testing.T) {
	root, focused := mustBuild(t, sample)

	if len(root.Outputs()) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(root.Outputs()))
	}
	ws1 := root.WorkspaceByName("1")
	if ws1 == nil || ws1.Layout != tree.LayoutSplitV {
		t.Fatalf("expected workspace 1 with splitv layout, got %+v", ws1)
	}
	editor := ws1.Tiling()[0]
	if editor.Layout != tree.LayoutTabbed || len(editor.Children()) != 2 {
		t.Fatalf("unexpected editor container: layout=%v children=%d", editor.Layout, len(editor.Children()))
	}
	if focused == nil || focused.Name != "vim" {
		t.Fatalf("expected vim focused, got %+v", focused)
	}
	if focused.WindowID != 0x400001 || !focused.HasMark("code") {
		t.Fatalf("expected window id and mark on vim, got %+v", focused)
	}

	ws2 := root.WorkspaceByName("2")
	if !tree.WorkspaceVisible(ws2) {
		t.Fatalf("expected workspace 2 active on DP-1")
	}
	if ws2.Fullscreen == nil || ws2.Fullscreen.Name != "browser" {
		t.Fatalf("expected browser fullscreen on workspace 2")
	}
	if len(ws2.Floating()) != 1 || !tree.IsFloating(ws2.Floating()[0]) {
		t.Fatalf("expected one floating container on workspace 2")
	}
	if !tree.WorkspaceVisible(root.WorkspaceByName("3")) {
		t.Fatalf("expected first workspace of HDMI-1 to be active")
	}
}

func TestBuild_DefaultLayout(t *testing.T) {
	f := &File{Outputs: []Output{{
		Name:       "DP-1",
		Rect:       tree.Rect{Width: 10, Height: 10},
		Workspaces: []Workspace{{Name: "a"}, {Name: "b", Layout: "splitv"}},
	}}}
	root, _, err := Build(f, tree.LayoutTabbed)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := root.WorkspaceByName("a").Layout; got != tree.LayoutTabbed {
		t.Fatalf("expected default layout tabbed, got %v", got)
	}
	if got := root.WorkspaceByName("b").Layout; got != tree.LayoutSplitV {
		t.Fatalf("expected explicit layout to win, got %v", got)
	}
}

func TestBuild_Rejects(t *testing.T) {
	out := func(body string) string {
		return "outputs:\n  - name: DP-1\n    rect: {width: 100, height: 100}\n    workspaces:\n" + body
	}
	tests := []struct {
		name string
		data string
		want string
	}{
		{"no outputs", "outputs: []", "no outputs"},
		{"zero rect", "outputs:\n  - name: DP-1\n", "positive size"},
		{"duplicate workspace", out("      - name: a\n      - name: a\n"), "duplicate workspace"},
		{"bad layout", out("      - name: a\n        layout: spiral\n"), "unknown layout"},
		{"duplicate mark", out("      - name: a\n        tiling:\n          - {name: x, marks: [m]}\n          - {name: y, marks: [m]}\n"), "mark \"m\""},
		{"two focused", out("      - name: a\n        tiling:\n          - {name: x, focused: true}\n          - {name: y, focused: true}\n"), "more than one focused"},
		{"two output fullscreen", out("      - name: a\n        tiling:\n          - {name: x, fullscreen: output}\n          - {name: y, fullscreen: output}\n"), "more than one fullscreen"},
		{"two global", out("      - name: a\n        tiling:\n          - {name: x, fullscreen: global}\n      - name: b\n        tiling:\n          - {name: y, fullscreen: global}\n"), "global fullscreen"},
		{"missing active", "outputs:\n  - name: DP-1\n    rect: {width: 1, height: 1}\n    active: z\n    workspaces:\n      - name: a\n", "active workspace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.data), FormatYAML)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, _, err = Build(f, tree.LayoutNone)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestFromRoot_RoundTrip(t *testing.T) {
	root, focused := mustBuild(t, sample)
	s := seat.New("seat0")
	s.SetFocus(focused)

	snap := FromRoot(root, s)
	if snap.Count() != 5 {
		t.Fatalf("expected 5 containers, got %d", snap.Count())
	}
	// Focusing vim made workspace 1 active.
	if snap.Outputs[0].Active != "1" {
		t.Fatalf("expected active workspace 1, got %q", snap.Outputs[0].Active)
	}
	if snap.PrevWorkspace != "" {
		t.Fatalf("expected no previous workspace, got %q", snap.PrevWorkspace)
	}

	for _, format := range []Format{FormatYAML, FormatJSON} {
		path := filepath.Join(t.TempDir(), "nested", "layout."+string(format))
		if err := Write(path, snap); err != nil {
			t.Fatalf("write %s: %v", format, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("load %s: %v", format, err)
		}
		rebuilt, refocused, err := Build(loaded, tree.LayoutNone)
		if err != nil {
			t.Fatalf("rebuild %s: %v", format, err)
		}
		if refocused == nil || refocused.Name != "vim" {
			t.Fatalf("%s: expected vim focused after round trip", format)
		}
		ws2 := rebuilt.WorkspaceByName("2")
		if ws2.Fullscreen == nil || ws2.Fullscreen.Name != "browser" {
			t.Fatalf("%s: expected fullscreen to survive round trip", format)
		}
		if len(ws2.Floating()) != 1 {
			t.Fatalf("%s: expected floating container to survive round trip", format)
		}
	}
}

func TestFormatFor(t *testing.T) {
	if FormatFor("a/b.JSON") != FormatJSON {
		t.Fatalf("expected json for .JSON")
	}
	if FormatFor("a/b.yml") != FormatYAML || FormatFor("noext") != FormatYAML {
		t.Fatalf("expected yaml default")
	}
}
