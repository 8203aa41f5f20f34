package inject

import (
	"fmt"
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpedriver/keyinject/internal/uinput"
)

type event struct {
	typ   evdev.EvType
	code  evdev.EvCode
	value int32
}

type fakeDevice struct {
	ready  bool
	events []event
	// fail the write with this index, -1 never
	failAt int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{ready: true, failAt: -1}
}

func (f *fakeDevice) Ready() bool { return f.ready }

func (f *fakeDevice) Emit(typ evdev.EvType, code evdev.EvCode, value int32) error {
	if len(f.events) == f.failAt {
		return fmt.Errorf("%w: broken pipe", uinput.ErrWriteFailed)
	}
	f.events = append(f.events, event{typ, code, value})
	return nil
}

func (f *fakeDevice) Sync() error {
	return f.Emit(evdev.EV_SYN, evdev.SYN_REPORT, 0)
}

var (
	syncEvent         = event{evdev.EV_SYN, evdev.SYN_REPORT, 0}
	rightShiftPressed = event{evdev.EV_KEY, evdev.KEY_RIGHTSHIFT, 1}
)

func key(code evdev.EvCode, t EventType) event {
	return event{evdev.EV_KEY, code, int32(t)}
}

func TestInjectSequences(t *testing.T) {
	tests := []struct {
		name string
		ev   KeyEvent
		want []event
	}{
		{
			name: "press uppercase letter",
			ev:   KeyEvent{RawID: 'A', Type: Press},
			want: []event{key(evdev.KEY_LEFTSHIFT, Press), key(evdev.KEY_A, Press)},
		},
		{
			name: "release uppercase letter",
			ev:   KeyEvent{RawID: 'A', Type: Release},
			want: []event{key(evdev.KEY_LEFTSHIFT, Release), key(evdev.KEY_A, Release), syncEvent},
		},
		{
			name: "press digit",
			ev:   KeyEvent{RawID: '5', Type: Press},
			want: []event{key(evdev.KEY_5, Press)},
		},
		{
			name: "release lowercase letter",
			ev:   KeyEvent{RawID: 'q', Type: Release, Text: "q"},
			want: []event{key(evdev.KEY_Q, Release), syncEvent},
		},
		{
			name: "repeat keeps value",
			ev:   KeyEvent{RawID: 'z', Type: Repeat},
			want: []event{key(evdev.KEY_Z, Repeat)},
		},
		{
			name: "press with shifted text",
			ev:   KeyEvent{RawID: 'A', Type: Press, Text: "A"},
			want: []event{rightShiftPressed, key(evdev.KEY_LEFTSHIFT, Press), key(evdev.KEY_A, Press)},
		},
		{
			name: "companion key passes through",
			ev:   KeyEvent{RawID: uinput.KeyRemoteBack | uinput.CompanionKeyTag, Type: Press},
			want: []event{key(uinput.KeyRemoteBack, Press)},
		},
		{
			name: "unshifted punctuation text",
			ev:   KeyEvent{RawID: '=', Type: Press, Text: "="},
			want: []event{key(evdev.KEY_EQUAL, Press)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newFakeDevice()
			s := NewSession(dev, nil)

			require.NoError(t, s.Inject(tt.ev))
			assert.Equal(t, tt.want, dev.events)
		})
	}
}

// A release of a shifted punctuation character still emits a right shift
// press before the release sequence. The pulse is never released.
func TestInjectShiftedTextReleaseEmitsPressPulse(t *testing.T) {
	dev := newFakeDevice()
	s := NewSession(dev, nil)

	require.NoError(t, s.Inject(KeyEvent{RawID: '!', Type: Release, Text: "!"}))
	assert.Equal(t, []event{
		rightShiftPressed,
		key(evdev.KEY_LEFTSHIFT, Release),
		key(evdev.KEY_1, Release),
		syncEvent,
	}, dev.events)
}

func TestInjectDeviceNotReady(t *testing.T) {
	dev := newFakeDevice()
	dev.ready = false
	s := NewSession(dev, nil)

	err := s.Inject(KeyEvent{RawID: 'A', Type: Press, Text: "A"})
	assert.ErrorIs(t, err, uinput.ErrDeviceNotReady)
	assert.Empty(t, dev.events)
}

func TestInjectStopsAtFirstWriteFailure(t *testing.T) {
	for failAt := 0; failAt < 4; failAt++ {
		t.Run(fmt.Sprintf("fail at %d", failAt), func(t *testing.T) {
			dev := newFakeDevice()
			dev.failAt = failAt
			s := NewSession(dev, nil)

			err := s.Inject(KeyEvent{RawID: 'A', Type: Release, Text: "A"})
			assert.ErrorIs(t, err, uinput.ErrWriteFailed)
			assert.Len(t, dev.events, failAt)
		})
	}
}

func TestTextNeedsShift(t *testing.T) {
	for c := 0; c < 128; c++ {
		_, want := uinput.Translate(c)
		// the literal check leaves out the apostrophe, ':' and '~'
		switch c {
		case '\'', ':', '~':
			want = false
		}
		assert.Equal(t, want, textNeedsShift(byte(c)), "char %q", rune(c))
	}
}

func TestParseEventType(t *testing.T) {
	for in, want := range map[string]EventType{
		"press": Press, "DOWN": Press, "1": Press,
		"release": Release, " up ": Release, "0": Release,
		"repeat": Repeat, "2": Repeat,
	} {
		got, err := ParseEventType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseEventType("hold")
	assert.Error(t, err)
	assert.Equal(t, "EventType(7)", EventType(7).String())
}

func TestInjectRejectsCodesBeyondEventRange(t *testing.T) {
	for _, raw := range []int{0x10041, 0xFFFFFF, uinput.CompanionKeyTag | 0x10041, -1} {
		t.Run(fmt.Sprintf("%#x", raw), func(t *testing.T) {
			dev := newFakeDevice()
			s := NewSession(dev, nil)

			err := s.Inject(KeyEvent{RawID: raw, Type: Press, Text: "A"})
			assert.ErrorIs(t, err, ErrKeyOutOfRange)
			assert.Empty(t, dev.events)
		})
	}

	dev := newFakeDevice()
	require.NoError(t, NewSession(dev, nil).Inject(KeyEvent{RawID: 0xFFFF, Type: Press}))
	assert.Equal(t, []event{key(0xFFFF, Press)}, dev.events)
}
