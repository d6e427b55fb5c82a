package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	source   SnapshotSource
	sensorId string
	value    *prometheus.Desc
}

func NewSensorCollector(source SnapshotSource, sensorId string) *SensorCollector {
	return &SensorCollector{
		source:   source,
		sensorId: sensorId,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature_celsius"),
			"Current temperature of the sensor",
			[]string{"id"}, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
}

func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot, ok := collector.source.LatestSnapshot()
	if !ok {
		return
	}
	ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, snapshot.Temperature, collector.sensorId)
}
