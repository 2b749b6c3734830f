package tree

import "fmt"

// FullscreenMode is the fullscreen state of a container.
type FullscreenMode int

const (
	FullscreenNone FullscreenMode = iota
	FullscreenOutput
	FullscreenGlobal
)

func (m FullscreenMode) String() string {
	switch m {
	case FullscreenOutput:
		return "output"
	case FullscreenGlobal:
		return "global"
	default:
		return "none"
	}
}

// ParseFullscreenMode is the inverse of String. The empty string is NONE.
func ParseFullscreenMode(s string) (FullscreenMode, error) {
	switch s {
	case "", "none":
		return FullscreenNone, nil
	case "output", "workspace":
		return FullscreenOutput, nil
	case "global":
		return FullscreenGlobal, nil
	default:
		return FullscreenNone, fmt.Errorf("unknown fullscreen mode %q", s)
	}
}

// SetFullscreen puts c into mode, evicting whichever container previously
// held the same workspace-level or global fullscreen slot.
func (r *Root) SetFullscreen(c *Container, mode FullscreenMode) {
	if mode == FullscreenNone {
		r.DisableFullscreen(c)
		return
	}
	if c.Fullscreen == mode {
		return
	}
	if c.Fullscreen != FullscreenNone {
		r.DisableFullscreen(c)
	}

	switch mode {
	case FullscreenOutput:
		if ws := c.workspace; ws != nil {
			if ws.Fullscreen != nil && ws.Fullscreen != c {
				r.DisableFullscreen(ws.Fullscreen)
			}
			ws.Fullscreen = c
		}
	case FullscreenGlobal:
		if r.FullscreenGlobal != nil && r.FullscreenGlobal != c {
			r.DisableFullscreen(r.FullscreenGlobal)
		}
		r.FullscreenGlobal = c
	}
	c.Fullscreen = mode
	r.notifyFullscreen(c)
}

// DisableFullscreen clears c's fullscreen mode and its bookkeeping.
func (r *Root) DisableFullscreen(c *Container) {
	if c.Fullscreen == FullscreenNone {
		return
	}
	if ws := c.workspace; ws != nil && ws.Fullscreen == c {
		ws.Fullscreen = nil
	}
	if r.FullscreenGlobal == c {
		r.FullscreenGlobal = nil
	}
	c.Fullscreen = FullscreenNone
	r.notifyFullscreen(c)
}

func (r *Root) notifyFullscreen(c *Container) {
	if r.OnFullscreenChange != nil {
		r.OnFullscreenChange(c)
	}
}
