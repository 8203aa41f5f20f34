package ipc

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/wpedriver/keyinject/internal/inject"
)

var ErrBadKeyCommand = errors.New("ipc: malformed key command")

// keyPayload is the JSON body of a CommandKeyEvent message, for example
// {"key":65,"type":"press","text":"A"}.
type keyPayload struct {
	Key  *int       `json:"key"`
	Type *eventType `json:"type"`
	Text string     `json:"text,omitempty"`
}

// eventType accepts either the name or the numeric value.
type eventType inject.EventType

func (t *eventType) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := inject.ParseEventType(s)
		if err != nil {
			return err
		}
		*t = eventType(v)
		return nil
	}
	var n int32
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if n < int32(inject.Release) || n > int32(inject.Repeat) {
		return fmt.Errorf("key event type %d out of range", n)
	}
	*t = eventType(n)
	return nil
}

func (t eventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(inject.EventType(t).String())
}

// DecodeKeyEvent parses the message of a CommandKeyEvent record.
func DecodeKeyEvent(msg string) (inject.KeyEvent, error) {
	var p keyPayload
	if err := json.Unmarshal([]byte(msg), &p); err != nil {
		return inject.KeyEvent{}, fmt.Errorf("%w: %w", ErrBadKeyCommand, err)
	}
	if p.Key == nil {
		return inject.KeyEvent{}, fmt.Errorf("%w: missing key", ErrBadKeyCommand)
	}
	if p.Type == nil {
		return inject.KeyEvent{}, fmt.Errorf("%w: missing type", ErrBadKeyCommand)
	}
	return inject.KeyEvent{
		RawID: *p.Key,
		Type:  inject.EventType(*p.Type),
		Text:  p.Text,
	}, nil
}

// EncodeKeyEvent builds the command record for ev.
func EncodeKeyEvent(ev inject.KeyEvent) (CommandRecord, error) {
	key, typ := ev.RawID, eventType(ev.Type)
	b, err := json.Marshal(keyPayload{Key: &key, Type: &typ, Text: ev.Text})
	if err != nil {
		return CommandRecord{}, err
	}
	if len(b) >= MessageSize {
		return CommandRecord{}, fmt.Errorf("%w: payload of %d bytes does not fit", ErrBadKeyCommand, len(b))
	}
	return CommandRecord{Command: CommandKeyEvent, Message: NewMessage(string(b))}, nil
}
