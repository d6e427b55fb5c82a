package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemAlerts = "alerts"

type AlertCounter interface {
	Emitted() uint64
	Suppressed() uint64
	LastAlertTime() (int64, bool)
}

type AlertCollector struct {
	counter    AlertCounter
	emitted    *prometheus.Desc
	suppressed *prometheus.Desc
	lastAlert  *prometheus.Desc
}

func NewAlertCollector(counter AlertCounter) *AlertCollector {
	return &AlertCollector{
		counter: counter,
		emitted: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemAlerts, "emitted_total"),
			"Number of emitted alerts",
			nil, nil,
		),
		suppressed: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemAlerts, "suppressed_total"),
			"Number of alerts suppressed by the cooldown",
			nil, nil,
		),
		lastAlert: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemAlerts, "last_timestamp_seconds"),
			"Unix timestamp of the last emitted alert",
			nil, nil,
		),
	}
}

func (collector *AlertCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.emitted
	ch <- collector.suppressed
	ch <- collector.lastAlert
}

func (collector *AlertCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.emitted, prometheus.CounterValue, float64(collector.counter.Emitted()))
	ch <- prometheus.MustNewConstMetric(collector.suppressed, prometheus.CounterValue, float64(collector.counter.Suppressed()))
	if last, ok := collector.counter.LastAlertTime(); ok {
		ch <- prometheus.MustNewConstMetric(collector.lastAlert, prometheus.GaugeValue, float64(last))
	}
}
