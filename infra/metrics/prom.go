package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/gmahli/fsaas/core/metrics"
)

// PromSink records simulation events in Prometheus metrics.
type PromSink struct {
	ticks    prometheus.Counter
	tickTime prometheus.Histogram
	alerts   *prometheus.CounterVec
	fuel     *prometheus.GaugeVec
	speed    *prometheus.GaugeVec
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ticks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_ticks_total",
		Help: "Total number of simulation ticks",
	})
	tickTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Wall time of one full fleet tick",
		Buckets: prometheus.DefBuckets,
	})
	alerts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_alerts_total",
		Help: "Alerts emitted by the simulation or scenario triggers",
	}, []string{"vehicle_id", "type", "severity", "source"})
	fuel := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vehicle_fuel_litres",
		Help: "Current total fuel on board per vehicle",
	}, []string{"vehicle_id"})
	speed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vehicle_speed_kmh",
		Help: "Current speed per vehicle",
	}, []string{"vehicle_id"})

	collectors := []prometheus.Collector{ticks, tickTime, alerts, fuel, speed}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				ticks = are.ExistingCollector.(prometheus.Counter)
			case 1:
				tickTime = are.ExistingCollector.(prometheus.Histogram)
			case 2:
				alerts = are.ExistingCollector.(*prometheus.CounterVec)
			case 3:
				fuel = are.ExistingCollector.(*prometheus.GaugeVec)
			case 4:
				speed = are.ExistingCollector.(*prometheus.GaugeVec)
			}
		}
	}

	return &PromSink{ticks: ticks, tickTime: tickTime, alerts: alerts, fuel: fuel, speed: speed}, nil
}

// RecordTick counts the pass and observes its duration.
func (s *PromSink) RecordTick(ev coremetrics.TickEvent) error {
	s.ticks.Inc()
	s.tickTime.Observe(ev.Duration.Seconds())
	return nil
}

// RecordAlert increments the per-type alert counter.
func (s *PromSink) RecordAlert(ev coremetrics.AlertEvent) error {
	s.alerts.WithLabelValues(ev.VehicleID, string(ev.Type), string(ev.Severity), ev.Source).Inc()
	return nil
}

// RecordFuel updates the per-vehicle gauges.
func (s *PromSink) RecordFuel(ev coremetrics.FuelEvent) error {
	s.fuel.WithLabelValues(ev.VehicleID).Set(ev.TotalFuel)
	s.speed.WithLabelValues(ev.VehicleID).Set(ev.Speed)
	return nil
}
