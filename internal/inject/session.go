package inject

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"

	"github.com/wpedriver/keyinject/internal/uinput"
)

// Emitter is the part of the virtual device a Session writes to.
type Emitter interface {
	Ready() bool
	Emit(typ evdev.EvType, code evdev.EvCode, value int32) error
	Sync() error
}

// ErrKeyOutOfRange is returned for identifiers whose code does not fit the
// 16 bit event code field.
var ErrKeyOutOfRange = errors.New("inject: key code out of range")

var defaultLogger = zerolog.New(os.Stdout).With().Str("subsystem", "inject").Logger()

// Session turns logical key events into ordered low-level device events.
// It keeps no state between calls and inherits the device's single-caller
// restriction.
type Session struct {
	dev Emitter
	log *zerolog.Logger
}

func NewSession(dev Emitter, logger *zerolog.Logger) *Session {
	if logger == nil {
		l := defaultLogger
		logger = &l
	}
	return &Session{dev: dev, log: logger}
}

// textNeedsShift reports whether a literal character is typed with shift on
// a US layout. It is checked independently of the identifier translation.
func textNeedsShift(c byte) bool {
	switch {
	case c >= '>' && c <= 'Z':
		return true
	case c >= '!' && c <= '&':
		return true
	case c >= '(' && c <= '+':
		return true
	case c >= '^' && c <= '_':
		return true
	case c >= '{' && c <= '}':
		return true
	}
	return c == '<'
}

// Inject writes the events for ev: an optional right shift press for shifted
// literal text, the left shift carrying the event's own value when the key
// requires it, the key itself, and a sync after a release. The first failed
// write stops the sequence; events already written stay written. Codes that
// do not fit 16 bits are rejected before anything is written.
func (s *Session) Inject(ev KeyEvent) error {
	if !s.dev.Ready() {
		return uinput.ErrDeviceNotReady
	}

	code, shift := uinput.Translate(ev.RawID)
	if code < 0 || code > math.MaxUint16 {
		s.log.Debug().Int("raw", ev.RawID).Int("code", code).Msg("key code does not fit an input event")
		return fmt.Errorf("%w: %#x", ErrKeyOutOfRange, ev.RawID)
	}

	// The right shift pulse is always a press, also when ev is a release.
	if len(ev.Text) > 0 && textNeedsShift(ev.Text[0]) {
		if err := s.dev.Emit(evdev.EV_KEY, evdev.KEY_RIGHTSHIFT, int32(Press)); err != nil {
			return err
		}
	}

	value := int32(ev.Type)

	s.log.Debug().
		Int("raw", ev.RawID).
		Int("code", code).
		Bool("shift", shift).
		Stringer("type", ev.Type).
		Msg("injecting key")

	if shift {
		if err := s.dev.Emit(evdev.EV_KEY, evdev.KEY_LEFTSHIFT, value); err != nil {
			return err
		}
	}

	if err := s.dev.Emit(evdev.EV_KEY, evdev.EvCode(code), value); err != nil {
		return err
	}

	if ev.Type == Release {
		return s.dev.Sync()
	}
	return nil
}
