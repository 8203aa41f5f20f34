package uinput

import "errors"

var (
	ErrDeviceOpenFailed   = errors.New("uinput: open device failed")
	ErrDeviceConfigFailed = errors.New("uinput: configure device failed")
	ErrDeviceCreateFailed = errors.New("uinput: create device failed")
	ErrDeviceNotReady     = errors.New("uinput: device not ready")
	ErrWriteFailed        = errors.New("uinput: write event failed")
)
