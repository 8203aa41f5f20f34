package keyinject

import (
	"context"
	"fmt"
	"time"

	"github.com/wpedriver/keyinject/internal/inject"
	"github.com/wpedriver/keyinject/internal/ipc"
	"github.com/wpedriver/keyinject/internal/utils"
)

const procName = "keyinjectd"

// Run brings up the virtual keyboard and serves the command channel until
// ctx is done. A keyboard that fails to register does not stop the daemon;
// key commands are answered with failures instead.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	m := NewMetrics()
	if cfg.MetricsFile != "" {
		stop, err := m.StartTextfile(cfg.MetricsFile, cfg.MetricsInterval)
		if err != nil {
			metricsLogger.Warn().Err(err).Msg("metrics textfile disabled")
		} else {
			defer func() { _ = stop() }()
		}
	}

	input, err := openInputDevice(ctx, cfg, m)
	if err != nil {
		utils.SetProcTitle(procName, "[device not ready]")
	} else {
		utils.SetProcTitle(procName, "[ready]")
	}
	defer input.Close()

	cmdSeg, err := ipc.OpenSegment(cfg.CommandKey, ipc.CommandRecordSize, true)
	if err != nil {
		return fmt.Errorf("open command channel: %w", err)
	}
	defer cmdSeg.Close()

	statusSeg, err := ipc.OpenSegment(cfg.StatusKey, ipc.StatusRecordSize, true)
	if err != nil {
		return fmt.Errorf("open status channel: %w", err)
	}
	defer statusSeg.Close()

	commands, err := ipc.NewCommandChannel(cmdSeg.Bytes())
	if err != nil {
		return err
	}
	status, err := ipc.NewStatusChannel(statusSeg.Bytes())
	if err != nil {
		return err
	}

	ipcLogger.Info().
		Int("command_key", cfg.CommandKey).
		Int("status_key", cfg.StatusKey).
		Msg("command channels attached")

	return NewDispatcher(commands, status, input, m, cfg.PollInterval).Run(ctx)
}

// TypeText registers the keyboard and types text, pressing and releasing
// one character at a time. Shift comes from the identifier alone, so
// nothing is left held once typing ends. settle gives the desktop time to pick up the new
// device before the first key.
func TypeText(ctx context.Context, cfg Config, text string, settle, delay time.Duration) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	input, err := openInputDevice(ctx, cfg, NewMetrics())
	defer input.Close()
	if err != nil {
		return err
	}
	return typeText(ctx, input, text, settle, delay)
}

func typeText(ctx context.Context, k keyInjector, text string, settle, delay time.Duration) error {
	if err := sleepCtx(ctx, settle); err != nil {
		return err
	}
	for _, r := range text {
		for _, typ := range []inject.EventType{inject.Press, inject.Release} {
			ev := inject.KeyEvent{RawID: int(r), Type: typ}
			if err := k.Inject(ev); err != nil {
				return fmt.Errorf("typing %q: %w", r, err)
			}
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
