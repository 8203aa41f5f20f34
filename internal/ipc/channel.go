package ipc

import (
	"encoding/binary"
	"fmt"
)

// CommandChannel reads command records from a region shared with the
// automation process. Command None means the slot is free.
type CommandChannel struct {
	mem []byte
}

func NewCommandChannel(mem []byte) (*CommandChannel, error) {
	if len(mem) < CommandRecordSize {
		return nil, fmt.Errorf("command region holds %d bytes, need %d", len(mem), CommandRecordSize)
	}
	return &CommandChannel{mem: mem[:CommandRecordSize]}, nil
}

func (c *CommandChannel) Read() (CommandRecord, error) {
	var r CommandRecord
	err := r.UnmarshalBinary(c.mem)
	return r, err
}

// Clear marks the slot free again so the next command can be posted.
func (c *CommandChannel) Clear() error {
	binary.NativeEndian.PutUint32(c.mem[:4], uint32(CommandNone))
	return nil
}

// StatusChannel publishes status records to the automation process.
type StatusChannel struct {
	mem []byte
}

func NewStatusChannel(mem []byte) (*StatusChannel, error) {
	if len(mem) < StatusRecordSize {
		return nil, fmt.Errorf("status region holds %d bytes, need %d", len(mem), StatusRecordSize)
	}
	return &StatusChannel{mem: mem[:StatusRecordSize]}, nil
}

// Write stores the response text before the status word, so a reader that
// sees the new status also sees its text.
func (c *StatusChannel) Write(r StatusRecord) error {
	copy(c.mem[4:], r.Response[:])
	binary.NativeEndian.PutUint32(c.mem[:4], uint32(r.Status))
	return nil
}

func (c *StatusChannel) Read() (StatusRecord, error) {
	var r StatusRecord
	err := r.UnmarshalBinary(c.mem)
	return r, err
}
