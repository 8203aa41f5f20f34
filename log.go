package keyinject

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	rootLogger    = zerolog.New(os.Stdout).With().Timestamp().Logger()
	deviceLogger  = subsystemLogger("uinput")
	injectLogger  = subsystemLogger("inject")
	ipcLogger     = subsystemLogger("ipc")
	metricsLogger = subsystemLogger("metrics")
)

func subsystemLogger(name string) zerolog.Logger {
	return rootLogger.With().Str("subsystem", name).Logger()
}

// SetupLogging rebuilds the package loggers. pretty switches to the human
// readable console writer on stderr.
func SetupLogging(level string, pretty bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	setRootLogger(zerolog.New(w).Level(lvl).With().Timestamp().Logger())
	return nil
}

func setRootLogger(l zerolog.Logger) {
	rootLogger = l
	deviceLogger = subsystemLogger("uinput")
	injectLogger = subsystemLogger("inject")
	ipcLogger = subsystemLogger("ipc")
	metricsLogger = subsystemLogger("metrics")
}
