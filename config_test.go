package keyinject

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wpedriver/keyinject/internal/uinput"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty device", func(c *Config) { c.DevicePath = "" }, "device path is empty"},
		{"long name", func(c *Config) { c.DeviceName = string(make([]byte, 80)) }, "device name longer than 79 bytes"},
		{"setup mode", func(c *Config) { c.SetupMode = "ancient" }, `unknown setup mode "ancient"`},
		{"shared key", func(c *Config) { c.StatusKey = c.CommandKey }, "share key 1234"},
		{"poll interval", func(c *Config) { c.PollInterval = 0 }, "poll interval must be positive"},
		{"metrics interval", func(c *Config) {
			c.MetricsFile = "/tmp/keyinject.prom"
			c.MetricsInterval = 0
		}, "metrics interval must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DevicePath = ""
	cfg.PollInterval = -time.Second

	err := cfg.Validate()
	assert.ErrorContains(t, err, "device path is empty")
	assert.ErrorContains(t, err, "poll interval must be positive")
}

func TestResolveSetupMode(t *testing.T) {
	release := func(r string, err error) func() (string, error) {
		return func() (string, error) { return r, err }
	}

	tests := []struct {
		mode    string
		release func() (string, error)
		want    uinput.SetupMode
	}{
		{"legacy", release("6.1.0", nil), uinput.SetupLegacy},
		{"modern", release("3.10.0", nil), uinput.SetupModern},
		{"auto", release("6.1.0-13-amd64", nil), uinput.SetupModern},
		{"auto", release("4.5.0", nil), uinput.SetupModern},
		{"auto", release("4.4.302", nil), uinput.SetupLegacy},
		{"auto", release("3.10.0-1160.el7.x86_64", nil), uinput.SetupLegacy},
		{"auto", release("", errors.New("no uname")), uinput.SetupLegacy},
		{"auto", release("garbage", nil), uinput.SetupLegacy},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.SetupMode = tt.mode
		assert.Equal(t, tt.want, cfg.resolveSetupMode(tt.release), "mode %s", tt.mode)
	}
}
