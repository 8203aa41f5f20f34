package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/wpedriver/keyinject"
)

type CLI struct {
	Config   kong.ConfigFlag  `help:"Load configuration from this YAML file." env:"KEYINJECT_CONFIG"`
	Settings keyinject.Config `embed:""`

	Serve ServeCmd `cmd:"" default:"1" help:"Serve key commands from the shared-memory channel."`
	Type  TypeCmd  `cmd:"" help:"Type text on the virtual keyboard and exit."`
}

type ServeCmd struct{}

func (c *ServeCmd) Run(ctx context.Context, cfg keyinject.Config) error {
	return keyinject.Run(ctx, cfg)
}

type TypeCmd struct {
	Text   string        `arg:"" help:"Text to type."`
	Settle time.Duration `default:"500ms" help:"Wait after creating the device before the first key."`
	Delay  time.Duration `default:"20ms" help:"Pause between characters."`
}

func (c *TypeCmd) Run(ctx context.Context, cfg keyinject.Config) error {
	return keyinject.TypeText(ctx, cfg, c.Text, c.Settle, c.Delay)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("keyinjectd"),
		kong.Description("Virtual keyboard for the browser automation process"),
		kong.UsageOnError(),
		// flags and env override file values
		kong.Configuration(kongyaml.Loader, "/etc/keyinject.yaml", "~/.config/keyinject.yaml"),
	)

	if err := keyinject.SetupLogging(cli.Settings.LogLevel, cli.Settings.LogPretty); err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Bind(cli.Settings)
	ctx.BindTo(sigCtx, (*context.Context)(nil))

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
