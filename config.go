package keyinject

import (
	"errors"
	"fmt"
	"time"

	"github.com/wpedriver/keyinject/internal/ipc"
	"github.com/wpedriver/keyinject/internal/native"
	"github.com/wpedriver/keyinject/internal/uinput"
)

// Config holds every daemon setting. The kong tags make it usable directly
// as the CLI and YAML schema.
type Config struct {
	DevicePath    string        `name:"device" default:"/dev/uinput" env:"KEYINJECT_DEVICE" help:"uinput device node."`
	DeviceName    string        `name:"device-name" default:"wd_key_input" env:"KEYINJECT_DEVICE_NAME" help:"Name the virtual keyboard reports."`
	SetupMode     string        `name:"setup" default:"auto" enum:"auto,legacy,modern" env:"KEYINJECT_SETUP" help:"Device setup call: auto picks by kernel version."`
	WaitForDevice time.Duration `name:"wait-device" default:"0s" env:"KEYINJECT_WAIT_DEVICE" help:"Wait this long for the device node to appear."`

	CommandKey   int           `name:"command-key" default:"1234" env:"KEYINJECT_COMMAND_KEY" help:"SysV key of the command channel."`
	StatusKey    int           `name:"status-key" default:"4321" env:"KEYINJECT_STATUS_KEY" help:"SysV key of the status channel."`
	PollInterval time.Duration `name:"poll-interval" default:"10ms" env:"KEYINJECT_POLL_INTERVAL" help:"How often the command channel is checked."`

	LogLevel  string `name:"log-level" default:"info" enum:"trace,debug,info,warn,error" env:"KEYINJECT_LOG_LEVEL" help:"Log level."`
	LogPretty bool   `name:"log-pretty" env:"KEYINJECT_LOG_PRETTY" help:"Human readable logs on stderr."`

	MetricsFile     string        `name:"metrics-file" type:"path" env:"KEYINJECT_METRICS_FILE" help:"Write Prometheus metrics to this textfile."`
	MetricsInterval time.Duration `name:"metrics-interval" default:"15s" env:"KEYINJECT_METRICS_INTERVAL" help:"Metrics textfile refresh interval."`
}

func DefaultConfig() Config {
	return Config{
		DevicePath:      uinput.DefaultPath,
		DeviceName:      uinput.DefaultName,
		SetupMode:       "auto",
		CommandKey:      ipc.CommandKey,
		StatusKey:       ipc.StatusKey,
		PollInterval:    10 * time.Millisecond,
		LogLevel:        "info",
		MetricsInterval: 15 * time.Second,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.DevicePath == "" {
		errs = append(errs, errors.New("device path is empty"))
	}
	if len(c.DeviceName) >= uinput.UINPUT_MAX_NAME_SIZE {
		errs = append(errs, fmt.Errorf("device name longer than %d bytes", uinput.UINPUT_MAX_NAME_SIZE-1))
	}
	switch c.SetupMode {
	case "auto", "legacy", "modern":
	default:
		errs = append(errs, fmt.Errorf("unknown setup mode %q", c.SetupMode))
	}
	if c.CommandKey == c.StatusKey {
		errs = append(errs, fmt.Errorf("command and status channels share key %d", c.CommandKey))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("poll interval must be positive"))
	}
	if c.MetricsFile != "" && c.MetricsInterval <= 0 {
		errs = append(errs, errors.New("metrics interval must be positive"))
	}
	return errors.Join(errs...)
}

// resolveSetupMode turns "auto" into a concrete mode for the running kernel.
func (c Config) resolveSetupMode(kernelRelease func() (string, error)) uinput.SetupMode {
	switch c.SetupMode {
	case "legacy":
		return uinput.SetupLegacy
	case "modern":
		return uinput.SetupModern
	}
	release, err := kernelRelease()
	if err != nil {
		deviceLogger.Warn().Err(err).Msg("unable to read kernel release, using legacy device setup")
		return uinput.SetupLegacy
	}
	if native.SupportsUinputSetup(release) {
		return uinput.SetupModern
	}
	return uinput.SetupLegacy
}
