package keyinject

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/holoplot/go-evdev"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wpedriver/keyinject/internal/inject"
)

// Metrics are kept on a private registry; there is no HTTP endpoint, the
// registry is flushed to a node_exporter textfile instead.
type Metrics struct {
	registry *prometheus.Registry

	eventsWritten  *prometheus.CounterVec
	writeFailures  prometheus.Counter
	commands       *prometheus.CounterVec
	injectFailures *prometheus.CounterVec
	deviceReady    prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		eventsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keyinject_events_written_total",
			Help: "Low-level input events written to the virtual device",
		}, []string{"type"}),
		writeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "keyinject_event_write_failures_total",
			Help: "Input event writes rejected by the device",
		}),
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keyinject_commands_total",
			Help: "Commands taken from the command channel",
		}, []string{"command", "status"}),
		injectFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keyinject_inject_failures_total",
			Help: "Key commands that could not be injected",
		}, []string{"reason"}),
		deviceReady: factory.NewGauge(prometheus.GaugeOpts{
			Name: "keyinject_device_ready",
			Help: "1 while the virtual keyboard is registered",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) setDeviceReady(ready bool) {
	if ready {
		m.deviceReady.Set(1)
	} else {
		m.deviceReady.Set(0)
	}
}

// StartTextfile writes the registry to path every interval until the
// returned stop function is called.
func (m *Metrics) StartTextfile(path string, interval time.Duration) (func() error, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(m.writeTextfile, path),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}
	s.Start()
	metricsLogger.Info().Str("path", path).Dur("interval", interval).Msg("writing metrics textfile")

	return func() error {
		m.writeTextfile(path)
		return s.Shutdown()
	}, nil
}

func (m *Metrics) writeTextfile(path string) {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		metricsLogger.Warn().Err(err).Str("path", path).Msg("failed to write metrics textfile")
	}
}

// meteredEmitter counts what reaches the device.
type meteredEmitter struct {
	inject.Emitter
	m *Metrics
}

func (m *Metrics) wrap(dev inject.Emitter) inject.Emitter {
	return meteredEmitter{Emitter: dev, m: m}
}

func (e meteredEmitter) Emit(typ evdev.EvType, code evdev.EvCode, value int32) error {
	if err := e.Emitter.Emit(typ, code, value); err != nil {
		e.m.writeFailures.Inc()
		return err
	}
	label := "other"
	switch typ {
	case evdev.EV_KEY:
		label = "key"
	case evdev.EV_SYN:
		label = "sync"
	}
	e.m.eventsWritten.WithLabelValues(label).Inc()
	return nil
}

func (e meteredEmitter) Sync() error {
	if err := e.Emitter.Sync(); err != nil {
		e.m.writeFailures.Inc()
		return err
	}
	e.m.eventsWritten.WithLabelValues("sync").Inc()
	return nil
}
