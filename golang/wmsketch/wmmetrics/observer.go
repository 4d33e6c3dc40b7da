// Package wmmetrics exports training progress as Prometheus metrics.
package wmmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tarstars/sketched_classification/golang/wmsketch/wml"
)

const prefix = "wmsketch_"

// Observer implements wml.Observer on top of a private registry.
type Observer struct {
	registry   *prometheus.Registry
	examples   prometheus.Counter
	mismatches prometheus.Counter
	epochs     prometheus.Counter
	errorRate  prometheus.Gauge
	runtime    prometheus.Gauge
}

var _ wml.Observer = (*Observer)(nil)

// NewObserver registers the training metrics labelled with the method name.
func NewObserver(method string) *Observer {
	registry := prometheus.NewRegistry()
	registerer := prometheus.WrapRegistererWithPrefix(prefix,
		prometheus.WrapRegistererWith(prometheus.Labels{"method": method}, registry))

	o := &Observer{
		registry: registry,
		examples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "train_examples_total",
			Help: "Examples passed to Update.",
		}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "train_mismatches_total",
			Help: "Pre-update predictions that disagreed with the label.",
		}),
		epochs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "train_epochs_total",
			Help: "Completed passes (or sampling runs).",
		}),
		errorRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "train_error_rate",
			Help: "Cumulative training error rate at the last epoch boundary.",
		}),
		runtime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "train_runtime_milliseconds",
			Help: "Wall time spent training at the last epoch boundary.",
		}),
	}
	registerer.MustRegister(o.examples, o.mismatches, o.epochs, o.errorRate, o.runtime)
	return o
}

func (o *Observer) ObserveExample(mismatch bool) {
	o.examples.Inc()
	if mismatch {
		o.mismatches.Inc()
	}
}

func (o *Observer) ObserveEpoch(_ int, result wml.TrainResult) {
	o.epochs.Inc()
	o.errorRate.Set(result.ErrorRate())
	o.runtime.Set(float64(result.RuntimeMs))
}

// Gatherer exposes the registry, e.g. for promhttp or tests.
func (o *Observer) Gatherer() prometheus.Gatherer {
	return o.registry
}

// WriteTextfile dumps the metrics in the node-exporter textfile format.
func (o *Observer) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, o.registry)
}
