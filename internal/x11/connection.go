// Package x11 discovers physical outputs through XRandR.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection wraps an X server connection.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// Connect opens display, or $DISPLAY when display is empty.
func Connect(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X display %q: %w", display, err)
	}
	return &Connection{XUtil: xu, Root: xu.RootWin()}, nil
}

// Close disconnects from the X server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
