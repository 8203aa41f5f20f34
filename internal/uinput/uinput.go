package uinput

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

const (
	DefaultPath    = "/dev/uinput"
	DefaultName    = "wd_key_input"
	DefaultVersion = 0x01
)

// evdev/uinput ioctl requests
const (
	UI_DEV_CREATE  = 0x5501
	UI_DEV_DESTROY = 0x5502
	UI_DEV_SETUP   = 0x405c5503
	UI_SET_EVBIT   = 0x40045564
	UI_SET_KEYBIT  = 0x40045565
)

var defaultLogger = zerolog.New(os.Stdout).With().Str("subsystem", "uinput").Logger()

// Handle is an open uinput character device.
type Handle interface {
	Ioctl(req uint, arg uintptr) error
	IoctlPtr(req uint, arg unsafe.Pointer) error
	Write(p []byte) (int, error)
	Close() error
}

// Opener opens the uinput node at path.
type Opener func(path string) (Handle, error)

type fileHandle struct {
	fd int
}

// OpenFile opens path write-only and non-blocking.
func OpenFile(path string) (Handle, error) {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &fileHandle{fd: fd}, nil
}

func (f *fileHandle) Ioctl(req uint, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(f.fd), uintptr(req), arg)
	if errno != 0 {
		return errno
	}
	return nil
}

func (f *fileHandle) IoctlPtr(req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(f.fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (f *fileHandle) Write(p []byte) (int, error) {
	return unix.Write(f.fd, p)
}

func (f *fileHandle) Close() error {
	return unix.Close(f.fd)
}

// Device is the process-wide virtual keyboard. It is not safe for
// concurrent use; callers serialize access.
type Device struct {
	path      string
	name      string
	version   uint16
	setupMode SetupMode
	open      Opener
	log       *zerolog.Logger
	now       func() time.Time

	h     Handle
	ready bool
}

type Option func(*Device)

func WithPath(path string) Option {
	return func(d *Device) { d.path = path }
}

func WithName(name string) Option {
	return func(d *Device) { d.name = name }
}

func WithSetupMode(mode SetupMode) Option {
	return func(d *Device) { d.setupMode = mode }
}

func WithOpener(open Opener) Option {
	return func(d *Device) { d.open = open }
}

func WithLogger(logger *zerolog.Logger) Option {
	return func(d *Device) {
		if logger != nil {
			d.log = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Device) { d.now = now }
}

// NewDevice prepares a device. Nothing is opened until Register.
func NewDevice(opts ...Option) *Device {
	l := defaultLogger
	d := &Device{
		path:      DefaultPath,
		name:      DefaultName,
		version:   DefaultVersion,
		setupMode: SetupLegacy,
		open:      OpenFile,
		log:       &l,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register opens the uinput node, declares the key and sync event classes
// and every key the device can emit, then creates the device. A failed step
// is logged and returned; earlier steps are not undone.
func (d *Device) Register() error {
	if d.ready {
		return nil
	}
	if d.h != nil {
		// leftover from an earlier failed attempt
		_ = d.Close()
	}

	h, err := d.open(d.path)
	if err != nil {
		d.log.Warn().Err(err).Str("path", d.path).Msg("Can't open uinput device")
		return fmt.Errorf("%w: %s: %w", ErrDeviceOpenFailed, d.path, err)
	}
	d.h = h

	if err := d.h.Ioctl(UI_SET_EVBIT, uintptr(evdev.EV_KEY)); err != nil {
		d.log.Warn().Err(err).Msg("Can't register uinput key events")
		return fmt.Errorf("%w: UI_SET_EVBIT EV_KEY: %w", ErrDeviceConfigFailed, err)
	}
	if err := d.h.Ioctl(UI_SET_EVBIT, uintptr(evdev.EV_SYN)); err != nil {
		d.log.Warn().Err(err).Msg("Can't register uinput synchronization events")
		return fmt.Errorf("%w: UI_SET_EVBIT EV_SYN: %w", ErrDeviceConfigFailed, err)
	}

	if err := d.writeMetadata(); err != nil {
		d.log.Warn().Err(err).Str("setup", d.setupMode.String()).Msg("Can not initialize user input device")
		return fmt.Errorf("%w: device setup (%s): %w", ErrDeviceConfigFailed, d.setupMode, err)
	}

	if err := d.registerHandledKeys(); err != nil {
		d.log.Warn().Err(err).Msg("Can't register uinput key codes")
		return err
	}

	if err := d.h.Ioctl(UI_DEV_CREATE, 0); err != nil {
		d.log.Warn().Err(err).Msg("Can not create user input device")
		return fmt.Errorf("%w: %w", ErrDeviceCreateFailed, err)
	}

	d.ready = true
	d.log.Info().
		Str("path", d.path).
		Str("name", d.name).
		Str("setup", d.setupMode.String()).
		Msg("uinput device created")
	return nil
}

func (d *Device) registerHandledKeys() error {
	for code := 0; code < keyboardRangeLimit; code++ {
		if err := d.h.Ioctl(UI_SET_KEYBIT, uintptr(code)); err != nil {
			return fmt.Errorf("%w: UI_SET_KEYBIT %d: %w", ErrDeviceConfigFailed, code, err)
		}
	}
	// Kernels reject codes above KEY_MAX; those stay best effort.
	rejected := 0
	for _, code := range remoteKeyCodes {
		if err := d.h.Ioctl(UI_SET_KEYBIT, uintptr(code)); err != nil {
			rejected++
			d.log.Debug().Err(err).Uint16("code", uint16(code)).Msg("remote key code not accepted")
		}
	}
	if rejected > 0 {
		d.log.Debug().Int("rejected", rejected).Int("total", len(remoteKeyCodes)).Msg("remote key codes registered partially")
	}
	return nil
}

// Ready reports whether Register completed.
func (d *Device) Ready() bool {
	return d.ready
}

// Emit writes a single event stamped with the current time.
func (d *Device) Emit(typ evdev.EvType, code evdev.EvCode, value int32) error {
	if d.h == nil {
		return ErrDeviceNotReady
	}
	ev := newInputEvent(d.now(), typ, code, value)
	b, err := ev.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	n, err := d.h.Write(b)
	if err != nil {
		d.log.Debug().Err(err).Uint16("type", uint16(typ)).Uint16("code", uint16(code)).Msg("event write failed")
		return fmt.Errorf("%w: type=%d code=%d value=%d: %w", ErrWriteFailed, uint16(typ), uint16(code), value, err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: short write %d of %d bytes", ErrWriteFailed, n, len(b))
	}
	d.log.Trace().
		Uint16("type", uint16(typ)).
		Uint16("code", uint16(code)).
		Int32("value", value).
		Msg("event written")
	return nil
}

// Sync writes EV_SYN/SYN_REPORT, closing the current batch of events.
func (d *Device) Sync() error {
	return d.Emit(evdev.EV_SYN, evdev.SYN_REPORT, 0)
}

// Close destroys the device and releases the handle. Failures are logged
// only, there is nothing left to act on them.
func (d *Device) Close() error {
	if d.h == nil {
		return nil
	}
	if err := d.h.Ioctl(UI_DEV_DESTROY, 0); err != nil {
		d.log.Debug().Err(err).Msg("UI_DEV_DESTROY failed")
	}
	if err := d.h.Close(); err != nil {
		d.log.Debug().Err(err).Msg("closing uinput handle failed")
	}
	d.h = nil
	d.ready = false
	return nil
}
