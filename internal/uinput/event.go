package uinput

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
	"unsafe"

	"github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"
)

// InputEvent mirrors struct input_event from <linux/input.h>. Field order and
// sizes follow the kernel ABI for the build architecture.
type InputEvent struct {
	Time  unix.Timeval
	Type  evdev.EvType
	Code  evdev.EvCode
	Value int32
}

// InputEventSize is the number of bytes the kernel reads per event.
const InputEventSize = int(unsafe.Sizeof(InputEvent{}))

func newInputEvent(now time.Time, typ evdev.EvType, code evdev.EvCode, value int32) InputEvent {
	return InputEvent{
		Time:  unix.NsecToTimeval(now.UnixNano()),
		Type:  typ,
		Code:  code,
		Value: value,
	}
}

func (e InputEvent) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, InputEventSize))
	if err := binary.Write(buf, binary.NativeEndian, &e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *InputEvent) UnmarshalBinary(data []byte) error {
	if len(data) != InputEventSize {
		return fmt.Errorf("input event: want %d bytes, got %d", InputEventSize, len(data))
	}
	return binary.Read(bytes.NewReader(data), binary.NativeEndian, e)
}
