// Package ipc holds the fixed-layout records exchanged with the automation
// process and the shared-memory channels carrying them.
//
// Both records are a C enum (int32) followed by a 128 byte NUL-terminated
// text buffer. The layout must not change between versions.
package ipc

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	MessageSize = 128

	// well-known SysV keys of the two channels
	CommandKey = 1234
	StatusKey  = 4321
)

type Command int32

const (
	CommandNone Command = iota
	CommandCreateView
	CommandRemoveView
	CommandReload
	CommandJSStart
	CommandGetURL
	CommandJSEnd
	// CommandKeyEvent carries a key injection request in the message.
	CommandKeyEvent
)

var commandNames = map[Command]string{
	CommandNone:       "none",
	CommandCreateView: "create_view",
	CommandRemoveView: "remove_view",
	CommandReload:     "reload",
	CommandJSStart:    "js_start",
	CommandGetURL:     "get_url",
	CommandJSEnd:      "js_end",
	CommandKeyEvent:   "key_event",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int32(c))
}

type Status int32

const (
	StatusNone Status = iota
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

type Message [MessageSize]byte

// NewMessage copies s into a buffer, truncating so a NUL always follows.
func NewMessage(s string) (m Message) {
	copy(m[:MessageSize-1], s)
	return m
}

// String returns the text up to the first NUL.
func (m Message) String() string {
	if i := bytes.IndexByte(m[:], 0); i >= 0 {
		return string(m[:i])
	}
	return string(m[:])
}

type CommandRecord struct {
	Command Command
	Message Message
}

type StatusRecord struct {
	Status   Status
	Response Message
}

var (
	CommandRecordSize = binary.Size(CommandRecord{})
	StatusRecordSize  = binary.Size(StatusRecord{})
)

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshal(data []byte, size int, v any) error {
	if len(data) < size {
		return fmt.Errorf("record needs %d bytes, got %d", size, len(data))
	}
	return binary.Read(bytes.NewReader(data[:size]), binary.NativeEndian, v)
}

func (r CommandRecord) MarshalBinary() ([]byte, error) { return marshal(&r) }

func (r *CommandRecord) UnmarshalBinary(data []byte) error {
	return unmarshal(data, CommandRecordSize, r)
}

func (r StatusRecord) MarshalBinary() ([]byte, error) { return marshal(&r) }

func (r *StatusRecord) UnmarshalBinary(data []byte) error {
	return unmarshal(data, StatusRecordSize, r)
}
