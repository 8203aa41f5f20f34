package uinput

import (
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
)

func TestTranslateShiftedPunctuation(t *testing.T) {
	tests := []struct {
		in   rune
		want evdev.EvCode
	}{
		{'!', evdev.KEY_1},
		{'"', evdev.KEY_APOSTROPHE},
		{'#', evdev.KEY_3},
		{'$', evdev.KEY_4},
		{'%', evdev.KEY_5},
		{'&', evdev.KEY_7},
		{'\'', evdev.KEY_GRAVE},
		{'(', evdev.KEY_9},
		{')', evdev.KEY_0},
		{'*', evdev.KEY_8},
		{'+', evdev.KEY_EQUAL},
		{':', evdev.KEY_SEMICOLON},
		{'<', evdev.KEY_COMMA},
		{'>', evdev.KEY_DOT},
		{'?', evdev.KEY_SLASH},
		{'@', evdev.KEY_2},
		{'^', evdev.KEY_6},
		{'_', evdev.KEY_MINUS},
		{'{', evdev.KEY_LEFTBRACE},
		{'|', evdev.KEY_BACKSLASH},
		{'}', evdev.KEY_RIGHTBRACE},
		{'~', evdev.KEY_GRAVE},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			code, shift := Translate(int(tt.in))
			assert.Equal(t, int(tt.want), code)
			assert.True(t, shift)
		})
	}
}

func TestTranslateUnshiftedPunctuation(t *testing.T) {
	tests := []struct {
		in   rune
		want evdev.EvCode
	}{
		{',', evdev.KEY_COMMA},
		{'-', evdev.KEY_MINUS},
		{'.', evdev.KEY_DOT},
		{'/', evdev.KEY_SLASH},
		{';', evdev.KEY_SEMICOLON},
		{'=', evdev.KEY_EQUAL},
		{'[', evdev.KEY_LEFTBRACE},
		{'\\', evdev.KEY_BACKSLASH},
		{']', evdev.KEY_RIGHTBRACE},
		{' ', evdev.KEY_SPACE},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			code, shift := Translate(int(tt.in))
			assert.Equal(t, int(tt.want), code)
			assert.False(t, shift)
		})
	}
}

func TestTranslateLettersIgnoreCase(t *testing.T) {
	for i := 0; i < 26; i++ {
		upper, lower := 'A'+i, 'a'+i
		upCode, upShift := Translate(upper)
		lowCode, lowShift := Translate(lower)

		assert.Equal(t, int(letterCodes[i]), upCode, "letter %c", rune(upper))
		assert.Equal(t, upCode, lowCode, "letter %c", rune(lower))
		assert.True(t, upShift, "letter %c", rune(upper))
		assert.False(t, lowShift, "letter %c", rune(lower))
	}
}

func TestTranslateDigits(t *testing.T) {
	want := []evdev.EvCode{
		evdev.KEY_0, evdev.KEY_1, evdev.KEY_2, evdev.KEY_3, evdev.KEY_4,
		evdev.KEY_5, evdev.KEY_6, evdev.KEY_7, evdev.KEY_8, evdev.KEY_9,
	}
	for i, code := range want {
		got, shift := Translate('0' + i)
		assert.Equal(t, int(code), got, "digit %d", i)
		assert.False(t, shift, "digit %d", i)
	}
}

func TestTranslateIdentityFallback(t *testing.T) {
	for _, id := range []int{0x00, 0x08, 0x0D, 0x1B, 0x7F, 0x80, 0xE000, 0xE103, 0xEE06, 0xFFFF} {
		code, shift := Translate(id)
		assert.Equal(t, id, code, "id %#x", id)
		assert.False(t, shift, "id %#x", id)
	}
}

func TestTranslateStripsCompanionTag(t *testing.T) {
	for id := 0; id <= 0xFFFF; id++ {
		wantCode, wantShift := Translate(id)
		code, shift := Translate(id | CompanionKeyTag)
		if code != wantCode || shift != wantShift {
			t.Fatalf("Translate(%#x|tag) = (%d, %t), want (%d, %t)", id, code, shift, wantCode, wantShift)
		}
	}
}

func TestRemoteKeyCodesIsCopy(t *testing.T) {
	codes := RemoteKeyCodes()
	assert.Len(t, codes, 28)
	codes[0] = 0
	assert.Equal(t, evdev.EvCode(KeyRemotePower), RemoteKeyCodes()[0])
}
