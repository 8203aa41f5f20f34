package inject

import (
	"fmt"
	"strconv"
	"strings"
)

// EventType is the key state carried in the value field of an EV_KEY event.
type EventType int32

const (
	Release EventType = 0
	Press   EventType = 1
	Repeat  EventType = 2
)

func (t EventType) String() string {
	switch t {
	case Release:
		return "release"
	case Press:
		return "press"
	case Repeat:
		return "repeat"
	default:
		return "EventType(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseEventType accepts the names returned by String or their numeric
// values.
func ParseEventType(s string) (EventType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "release", "up", "0":
		return Release, nil
	case "press", "down", "1":
		return Press, nil
	case "repeat", "2":
		return Repeat, nil
	}
	return 0, fmt.Errorf("unknown key event type %q", s)
}

// KeyEvent is one logical key request from the automation client.
type KeyEvent struct {
	// RawID is the logical key identifier, possibly tagged as a companion key.
	RawID int
	Type  EventType
	// Text is the literal text the key produces, if the client sent any.
	Text string
}
