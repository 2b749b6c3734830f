package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/1broseidon/tiletree/internal/layoutfile"
)

// renderTree prints f as an indented outline. Lines longer than width are
// cut when width is positive.
func renderTree(w io.Writer, f *layoutfile.File, width int) {
	line := func(depth int, s string) {
		s = strings.Repeat("  ", depth) + s
		if width > 0 && len(s) > width {
			if width > 3 {
				s = s[:width-3] + "..."
			} else {
				s = s[:width]
			}
		}
		fmt.Fprintln(w, s)
	}

	for _, o := range f.Outputs {
		line(0, fmt.Sprintf("output %s %dx%d+%d+%d", o.Name, o.Rect.Width, o.Rect.Height, o.Rect.X, o.Rect.Y))
		for _, ws := range o.Workspaces {
			label := fmt.Sprintf("workspace %s [%s]", ws.Name, ws.Layout)
			if ws.Name == o.Active {
				label += " (active)"
			}
			line(1, label)
			var walk func(depth int, n layoutfile.Node)
			walk = func(depth int, n layoutfile.Node) {
				line(depth, describeNode(n))
				for _, child := range n.Children {
					walk(depth+1, child)
				}
			}
			for _, n := range ws.Tiling {
				walk(2, n)
			}
			for _, n := range ws.Floating {
				line(2, "floating:")
				walk(3, n)
			}
		}
	}
}

func describeNode(n layoutfile.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d", n.ID)
	if n.Name != "" {
		fmt.Fprintf(&b, " %q", n.Name)
	}
	if n.Layout != "" {
		fmt.Fprintf(&b, " [%s]", n.Layout)
	}
	if n.WindowID != 0 {
		fmt.Fprintf(&b, " window=0x%x", n.WindowID)
	}
	if len(n.Marks) > 0 {
		fmt.Fprintf(&b, " marks=%s", strings.Join(n.Marks, ","))
	}
	if n.Fullscreen != "" {
		fmt.Fprintf(&b, " fullscreen=%s", n.Fullscreen)
	}
	if n.Rect != nil {
		fmt.Fprintf(&b, " %dx%d+%d+%d", n.Rect.Width, n.Rect.Height, n.Rect.X, n.Rect.Y)
	}
	if n.Focused {
		b.WriteString(" *")
	}
	return b.String()
}
