package keyinject

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/wpedriver/keyinject/internal/inject"
	"github.com/wpedriver/keyinject/internal/ipc"
	"github.com/wpedriver/keyinject/internal/uinput"
)

type commandSource interface {
	Read() (ipc.CommandRecord, error)
	Clear() error
}

type statusSink interface {
	Write(ipc.StatusRecord) error
}

type keyInjector interface {
	Inject(inject.KeyEvent) error
}

// Dispatcher takes commands from the command channel one at a time, which
// is also what serializes access to the virtual keyboard.
type Dispatcher struct {
	commands commandSource
	status   statusSink
	injector keyInjector
	metrics  *Metrics
	interval time.Duration
}

func NewDispatcher(commands commandSource, status statusSink, injector keyInjector, m *Metrics, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		commands: commands,
		status:   status,
		injector: injector,
		metrics:  m,
		interval: interval,
	}
}

// Run polls until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	scopedLogger := ipcLogger.With().Str("service", "dispatcher").Logger()
	scopedLogger.Info().Dur("interval", d.interval).Msg("waiting for commands")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			scopedLogger.Info().Msg("dispatcher stopped")
			return nil
		case <-ticker.C:
			// drain everything queued since the last tick
			for {
				handled, err := d.Poll()
				if err != nil {
					scopedLogger.Warn().Err(err).Msg("Error polling command channel")
					break
				}
				if !handled {
					break
				}
			}
		}
	}
}

// Poll handles the pending command, if any, and reports whether there was
// one. The slot is freed before the status is published, so a peer may post
// its next command as soon as it sees the reply.
func (d *Dispatcher) Poll() (bool, error) {
	rec, err := d.commands.Read()
	if err != nil {
		return false, fmt.Errorf("read command: %w", err)
	}
	if rec.Command == ipc.CommandNone {
		return false, nil
	}

	status := d.handle(rec)
	if err := d.commands.Clear(); err != nil {
		return true, fmt.Errorf("clear command: %w", err)
	}
	if err := d.status.Write(status); err != nil {
		return true, fmt.Errorf("write status: %w", err)
	}
	return true, nil
}

func (d *Dispatcher) handle(rec ipc.CommandRecord) ipc.StatusRecord {
	id := xid.New().String()
	l := ipcLogger.With().
		Str("request_id", id).
		Stringer("command", rec.Command).
		Logger()

	st := d.dispatch(rec, id, &l)
	d.metrics.commands.WithLabelValues(rec.Command.String(), st.Status.String()).Inc()
	return st
}

func (d *Dispatcher) dispatch(rec ipc.CommandRecord, id string, l *zerolog.Logger) ipc.StatusRecord {
	if rec.Command != ipc.CommandKeyEvent {
		l.Debug().Msg("command not handled by key injector")
		d.metrics.injectFailures.WithLabelValues("unsupported").Inc()
		return failure(id, errors.New("command not handled by key injector"))
	}

	ev, err := ipc.DecodeKeyEvent(rec.Message.String())
	if err != nil {
		l.Warn().Err(err).Str("message", rec.Message.String()).Msg("Invalid key command")
		d.metrics.injectFailures.WithLabelValues("bad_payload").Inc()
		return failure(id, err)
	}

	if err := d.injector.Inject(ev); err != nil {
		l.Warn().Err(err).Int("key", ev.RawID).Stringer("type", ev.Type).Msg("Key injection failed")
		d.metrics.injectFailures.WithLabelValues(failureReason(err)).Inc()
		return failure(id, err)
	}

	l.Debug().Int("key", ev.RawID).Stringer("type", ev.Type).Msg("key injected")
	return ipc.StatusRecord{Status: ipc.StatusSuccess, Response: ipc.NewMessage(id)}
}

func failure(id string, err error) ipc.StatusRecord {
	return ipc.StatusRecord{
		Status:   ipc.StatusFailure,
		Response: ipc.NewMessage(id + ": " + err.Error()),
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, uinput.ErrDeviceNotReady):
		return "not_ready"
	case errors.Is(err, uinput.ErrWriteFailed):
		return "write_failed"
	default:
		return "other"
	}
}
