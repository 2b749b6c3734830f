package x11

import (
	"testing"

	"github.com/1broseidon/tiletree/internal/tree"
)

func TestClipToWorkArea(t *testing.T) {
	mon := tree.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}

	// A top panel spanning both monitors.
	got := ClipToWorkArea(mon, tree.Rect{X: 0, Y: 30, Width: 3840, Height: 1050})
	want := tree.Rect{X: 1920, Y: 30, Width: 1920, Height: 1050}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	// Disjoint work area leaves the monitor alone.
	got = ClipToWorkArea(mon, tree.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})
	if got != mon {
		t.Fatalf("expected unchanged %+v, got %+v", mon, got)
	}
}

func TestSortMonitors(t *testing.T) {
	monitors := []Monitor{
		{Name: "HDMI-1", Rect: tree.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}},
		{Name: "DP-2", Rect: tree.Rect{X: 0, Y: 1080, Width: 1920, Height: 1080}},
		{Name: "DP-1", Rect: tree.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
	}
	SortMonitors(monitors)

	want := []string{"DP-1", "DP-2", "HDMI-1"}
	for i, m := range monitors {
		if m.Name != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], m.Name)
		}
	}
}
