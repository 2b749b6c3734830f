package x11

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/tiletree/internal/tree"
)

// Monitor is one active CRTC.
type Monitor struct {
	Name    string
	Rect    tree.Rect
	Primary bool
}

// Monitors lists the active monitors ordered left to right, then top to
// bottom. Each rect is clipped to the EWMH work area when the window
// manager publishes one.
func (c *Connection) Monitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		isPrimary := false
		for _, o := range info.Outputs {
			if o == primary {
				isPrimary = true
			}
		}

		monitors = append(monitors, Monitor{
			Name:    name,
			Rect:    tree.Rect{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)},
			Primary: isPrimary,
		})
	}

	if areas, err := ewmh.WorkareaGet(c.XUtil); err == nil && len(areas) > 0 {
		desktop := 0
		if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
			desktop = int(cur)
		}
		wa := areas[desktop]
		area := tree.Rect{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)}
		for i := range monitors {
			monitors[i].Rect = ClipToWorkArea(monitors[i].Rect, area)
		}
	}

	SortMonitors(monitors)
	return monitors, nil
}

// SortMonitors orders monitors by position, left to right then top to
// bottom.
func SortMonitors(monitors []Monitor) {
	sort.SliceStable(monitors, func(i, j int) bool {
		a, b := monitors[i].Rect, monitors[j].Rect
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
}

// ClipToWorkArea returns the part of r inside area. r is returned unchanged
// when they do not intersect.
func ClipToWorkArea(r, area tree.Rect) tree.Rect {
	x1 := max(r.X, area.X)
	y1 := max(r.Y, area.Y)
	x2 := min(r.X+r.Width, area.X+area.Width)
	y2 := min(r.Y+r.Height, area.Y+area.Height)
	if x2 <= x1 || y2 <= y1 {
		return r
	}
	return tree.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
