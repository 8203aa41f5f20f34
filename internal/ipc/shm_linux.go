//go:build linux

package ipc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Segment is an attached SysV shared memory segment.
type Segment struct {
	key int
	id  int
	mem []byte
}

// OpenSegment attaches the segment for key, creating it with mode 0600 when
// create is set.
func OpenSegment(key, size int, create bool) (*Segment, error) {
	flag := 0o600
	if create {
		flag |= unix.IPC_CREAT
	}
	id, err := unix.SysvShmGet(key, size, flag)
	if err != nil {
		return nil, fmt.Errorf("shmget key=%d: %w", key, err)
	}
	mem, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("shmat key=%d id=%d: %w", key, id, err)
	}
	if len(mem) < size {
		_ = unix.SysvShmDetach(mem)
		return nil, fmt.Errorf("segment key=%d has %d bytes, need %d", key, len(mem), size)
	}
	return &Segment{key: key, id: id, mem: mem}, nil
}

func (s *Segment) Key() int { return s.key }

func (s *Segment) Bytes() []byte { return s.mem }

// Close detaches the segment. The segment itself stays for the peer.
func (s *Segment) Close() error {
	if s.mem == nil {
		return nil
	}
	err := unix.SysvShmDetach(s.mem)
	s.mem = nil
	return err
}
