package utils

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	XConn *xgb.Conn
	XRoot xproto.Window
)

// Pointer is a desktop pointer sample in root window coordinates.
type Pointer struct {
	X, Y  int
	Left  bool
	Right bool
}

func InitX11() error {
	var err error
	XConn, err = xgb.NewConn()
	if err != nil {
		return err
	}

	setup := xproto.Setup(XConn)
	XRoot = setup.DefaultScreen(XConn).Root
	return nil
}

// GlobalPointer queries the X server for the pointer position and button state.
// It works while the player window is unfocused or sits below other windows.
func GlobalPointer() (Pointer, error) {
	if XConn == nil {
		if err := InitX11(); err != nil {
			return Pointer{}, err
		}
	}

	reply, err := xproto.QueryPointer(XConn, XRoot).Reply()
	if err != nil {
		return Pointer{}, err
	}

	return Pointer{
		X:     int(reply.RootX),
		Y:     int(reply.RootY),
		Left:  reply.Mask&xproto.KeyButMaskButton1 != 0,
		Right: reply.Mask&xproto.KeyButMaskButton3 != 0,
	}, nil
}

func CloseX11() {
	if XConn != nil {
		XConn.Close()
		XConn = nil
	}
}
