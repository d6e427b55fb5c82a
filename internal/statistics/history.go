package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemHistory = "history"

type HistorySource interface {
	Len() int
	Capacity() int
}

type HistoryCollector struct {
	source   HistorySource
	length   *prometheus.Desc
	capacity *prometheus.Desc
}

func NewHistoryCollector(source HistorySource) *HistoryCollector {
	return &HistoryCollector{
		source: source,
		length: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemHistory, "length"),
			"Number of snapshots in the history buffer",
			nil, nil,
		),
		capacity: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemHistory, "capacity"),
			"Maximum number of snapshots in the history buffer",
			nil, nil,
		),
	}
}

func (collector *HistoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.length
	ch <- collector.capacity
}

func (collector *HistoryCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.length, prometheus.GaugeValue, float64(collector.source.Len()))
	ch <- prometheus.MustNewConstMetric(collector.capacity, prometheus.GaugeValue, float64(collector.source.Capacity()))
}
