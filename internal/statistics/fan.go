package statistics

import (
	"github.com/fancontrol/fancontrol/internal/history"
	"github.com/prometheus/client_golang/prometheus"
)

const fanSubsystem = "fan"

// SnapshotSource provides the most recent sensor snapshot
type SnapshotSource interface {
	LatestSnapshot() (history.Snapshot, bool)
}

type FanCollector struct {
	source SnapshotSource
	pwm    *prometheus.Desc
	rpm    *prometheus.Desc
}

func NewFanCollector(source SnapshotSource) *FanCollector {
	return &FanCollector{
		source: source,
		pwm: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "pwm"),
			"Current PWM value of the fan",
			[]string{"id"}, nil,
		),
		rpm: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "rpm"),
			"Current RPM value of the fan",
			[]string{"id"}, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.pwm
	ch <- collector.rpm
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot, ok := collector.source.LatestSnapshot()
	if !ok {
		return
	}
	ch <- prometheus.MustNewConstMetric(collector.pwm, prometheus.GaugeValue, float64(snapshot.Pwm1), "fan1")
	ch <- prometheus.MustNewConstMetric(collector.rpm, prometheus.GaugeValue, snapshot.Fan1Rpm, "fan1")
	ch <- prometheus.MustNewConstMetric(collector.pwm, prometheus.GaugeValue, float64(snapshot.Pwm2), "fan2")
	ch <- prometheus.MustNewConstMetric(collector.rpm, prometheus.GaugeValue, snapshot.Fan2Rpm, "fan2")
}
