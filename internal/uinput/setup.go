package uinput

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"
)

const (
	UINPUT_MAX_NAME_SIZE = 80
	ABS_CNT              = 64

	BUS_USB = 0x03
)

// SetupMode selects how device metadata reaches the kernel.
type SetupMode int

const (
	// SetupLegacy writes a struct uinput_user_dev to the handle. Every
	// kernel with uinput accepts it.
	SetupLegacy SetupMode = iota
	// SetupModern issues UI_DEV_SETUP, available since Linux 4.5.
	SetupModern
)

func (m SetupMode) String() string {
	switch m {
	case SetupLegacy:
		return "legacy"
	case SetupModern:
		return "modern"
	default:
		return fmt.Sprintf("SetupMode(%d)", int(m))
	}
}

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// struct uinput_setup
type uinputSetup struct {
	ID           inputID
	Name         [UINPUT_MAX_NAME_SIZE]byte
	FFEffectsMax uint32
}

// struct uinput_user_dev
type uinputUserDev struct {
	Name         [UINPUT_MAX_NAME_SIZE]byte
	ID           inputID
	FFEffectsMax uint32
	Absmax       [ABS_CNT]int32
	Absmin       [ABS_CNT]int32
	Absfuzz      [ABS_CNT]int32
	Absflat      [ABS_CNT]int32
}

func deviceName(name string) (out [UINPUT_MAX_NAME_SIZE]byte) {
	// keep the trailing NUL
	copy(out[:UINPUT_MAX_NAME_SIZE-1], name)
	return out
}

func (d *Device) inputID() inputID {
	return inputID{Bustype: BUS_USB, Version: d.version}
}

func (d *Device) writeMetadata() error {
	if d.setupMode == SetupModern {
		setup := uinputSetup{ID: d.inputID(), Name: deviceName(d.name)}
		return d.h.IoctlPtr(UI_DEV_SETUP, unsafe.Pointer(&setup))
	}

	dev := uinputUserDev{ID: d.inputID(), Name: deviceName(d.name)}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
		return err
	}
	n, err := d.h.Write(buf.Bytes())
	if err != nil {
		return err
	}
	if n != buf.Len() {
		return fmt.Errorf("short write: %d of %d bytes", n, buf.Len())
	}
	return nil
}
