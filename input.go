package keyinject

import (
	"context"

	"github.com/wpedriver/keyinject/internal/inject"
	"github.com/wpedriver/keyinject/internal/native"
	"github.com/wpedriver/keyinject/internal/uinput"
)

// inputDevice owns the single virtual keyboard of the process and the
// session that drives it.
type inputDevice struct {
	dev     *uinput.Device
	session *inject.Session
	metrics *Metrics
}

// openInputDevice creates and registers the virtual keyboard. The returned
// device is usable even when registration failed: injections then report
// ErrDeviceNotReady, the same as a device that never came up.
func openInputDevice(ctx context.Context, cfg Config, m *Metrics, opts ...uinput.Option) (*inputDevice, error) {
	if cfg.WaitForDevice > 0 {
		if err := native.WaitForPath(ctx, cfg.DevicePath, cfg.WaitForDevice, &deviceLogger); err != nil {
			deviceLogger.Warn().Err(err).Str("path", cfg.DevicePath).Msg("device node did not appear")
		}
	}

	mode := cfg.resolveSetupMode(native.KernelRelease)
	base := []uinput.Option{
		uinput.WithPath(cfg.DevicePath),
		uinput.WithName(cfg.DeviceName),
		uinput.WithSetupMode(mode),
		uinput.WithLogger(&deviceLogger),
	}
	dev := uinput.NewDevice(append(base, opts...)...)

	d := &inputDevice{
		dev:     dev,
		session: inject.NewSession(m.wrap(dev), &injectLogger),
		metrics: m,
	}

	err := dev.Register()
	m.setDeviceReady(dev.Ready())
	if err != nil {
		deviceLogger.Error().Err(err).Msg("failed to register virtual keyboard")
		return d, err
	}
	return d, nil
}

func (d *inputDevice) Ready() bool {
	return d.dev.Ready()
}

func (d *inputDevice) Inject(ev inject.KeyEvent) error {
	return d.session.Inject(ev)
}

func (d *inputDevice) Close() error {
	err := d.dev.Close()
	d.metrics.setDeviceReady(false)
	return err
}
