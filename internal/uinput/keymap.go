package uinput

import "github.com/holoplot/go-evdev"

// Identifiers from the companion (remote control) namespace carry this bit.
// It is cleared before lookup so both namespaces share one table.
const (
	CompanionKeyTag  = 0x01000000
	CompanionKeyMask = 0x00FFFFFF
)

// Remote control and companion device codes. These sit above the regular
// keyboard range and are registered on the device as-is.
const (
	KeyRemotePower    = 0xE000
	KeyRemoteOK       = 0xE001
	KeyRemoteBack     = 0xE002
	KeyRemoteInfo     = 0xE00E
	KeyRemoteText     = 0xE00F
	KeyRemoteUp       = 0xE100
	KeyRemoteDown     = 0xE101
	KeyRemoteLeft     = 0xE102
	KeyRemoteRight    = 0xE103
	KeyRemoteZero     = 0xE300
	KeyRemoteStop     = 0xE402
	KeyRemoteRecord   = 0xE403
	KeyRemoteMenu     = 0xEF00
	KeyCompanionLive  = 0xEE01
	KeyCompanionVOD   = 0xEE02
	KeyCompanionUp    = 0xEE03
	KeyCompanionDown  = 0xEE04
	KeyCompanionLeft  = 0xEE05
	KeyCompanionRight = 0xEE06
)

// Every code below this bound is declared on the device.
const keyboardRangeLimit = 256

// remoteKeyCodes lists every extended code the device declares on top of
// the 0-255 keyboard range.
var remoteKeyCodes = []evdev.EvCode{
	KeyRemotePower,
	KeyRemoteMenu,
	KeyRemoteBack,
	KeyRemoteUp,
	KeyRemoteDown,
	KeyRemoteLeft,
	KeyRemoteRight,
	KeyRemoteOK,
	KeyRemoteInfo,
	KeyRemoteText,
	KeyRemoteRecord,
	KeyRemoteStop,
	KeyRemoteZero + 1,
	KeyRemoteZero + 2,
	KeyRemoteZero + 3,
	KeyRemoteZero + 4,
	KeyRemoteZero + 5,
	KeyRemoteZero + 6,
	KeyRemoteZero + 7,
	KeyRemoteZero + 8,
	KeyRemoteZero + 9,
	KeyRemoteZero,
	KeyCompanionLive,
	KeyCompanionVOD,
	KeyCompanionUp,
	KeyCompanionDown,
	KeyCompanionLeft,
	KeyCompanionRight,
}

// RemoteKeyCodes returns a copy of the extended codes registered by Register.
func RemoteKeyCodes() []evdev.EvCode {
	return append([]evdev.EvCode(nil), remoteKeyCodes...)
}

var letterCodes = [26]evdev.EvCode{
	evdev.KEY_A, evdev.KEY_B, evdev.KEY_C, evdev.KEY_D, evdev.KEY_E, evdev.KEY_F,
	evdev.KEY_G, evdev.KEY_H, evdev.KEY_I, evdev.KEY_J, evdev.KEY_K, evdev.KEY_L,
	evdev.KEY_M, evdev.KEY_N, evdev.KEY_O, evdev.KEY_P, evdev.KEY_Q, evdev.KEY_R,
	evdev.KEY_S, evdev.KEY_T, evdev.KEY_U, evdev.KEY_V, evdev.KEY_W, evdev.KEY_X,
	evdev.KEY_Y, evdev.KEY_Z,
}

// keysymToLinux maps printable identifiers to the US-layout key producing
// them. Shift state is decided separately by requiresShift.
var keysymToLinux = func() map[int]evdev.EvCode {
	m := map[int]evdev.EvCode{
		// typed with shift
		'!':  evdev.KEY_1,
		'"':  evdev.KEY_APOSTROPHE,
		'#':  evdev.KEY_3,
		'$':  evdev.KEY_4,
		'%':  evdev.KEY_5,
		'&':  evdev.KEY_7,
		'\'': evdev.KEY_GRAVE,
		'(':  evdev.KEY_9,
		')':  evdev.KEY_0,
		'*':  evdev.KEY_8,
		'+':  evdev.KEY_EQUAL,
		':':  evdev.KEY_SEMICOLON,
		'<':  evdev.KEY_COMMA,
		'>':  evdev.KEY_DOT,
		'?':  evdev.KEY_SLASH,
		'@':  evdev.KEY_2,
		'^':  evdev.KEY_6,
		'_':  evdev.KEY_MINUS,
		'{':  evdev.KEY_LEFTBRACE,
		'|':  evdev.KEY_BACKSLASH,
		'}':  evdev.KEY_RIGHTBRACE,
		'~':  evdev.KEY_GRAVE,

		// typed without shift
		',':  evdev.KEY_COMMA,
		'-':  evdev.KEY_MINUS,
		'.':  evdev.KEY_DOT,
		'/':  evdev.KEY_SLASH,
		';':  evdev.KEY_SEMICOLON,
		'=':  evdev.KEY_EQUAL,
		'[':  evdev.KEY_LEFTBRACE,
		'\\': evdev.KEY_BACKSLASH,
		']':  evdev.KEY_RIGHTBRACE,

		' ': evdev.KEY_SPACE,

		'0': evdev.KEY_0,
		'1': evdev.KEY_1,
		'2': evdev.KEY_2,
		'3': evdev.KEY_3,
		'4': evdev.KEY_4,
		'5': evdev.KEY_5,
		'6': evdev.KEY_6,
		'7': evdev.KEY_7,
		'8': evdev.KEY_8,
		'9': evdev.KEY_9,
	}
	for i, code := range letterCodes {
		m['A'+i] = code
		m['a'+i] = code
	}
	return m
}()

// requiresShift reports whether the identifier is only reachable with shift
// held on a US layout.
func requiresShift(id int) bool {
	switch {
	case id >= 'A' && id <= 'Z':
		return true
	case id >= '!' && id <= ')':
		return true
	case id >= '{' && id <= '~':
		return true
	}
	switch id {
	case '*', '+', ':', '<', '>', '?', '^', '_', '@':
		return true
	}
	return false
}

// Translate resolves a logical key identifier to the physical key code the
// virtual device emits and whether shift must be held for it. Identifiers
// the table does not know are returned unchanged so control and remote codes
// reach the device as sent.
func Translate(id int) (code int, shift bool) {
	if id&CompanionKeyTag != 0 {
		id &= CompanionKeyMask
	}
	shift = requiresShift(id)
	if c, ok := keysymToLinux[id]; ok {
		return int(c), shift
	}
	return id, shift
}
