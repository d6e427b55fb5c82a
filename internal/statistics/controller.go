package statistics

import (
	"github.com/fancontrol/fancontrol/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

type StateSource interface {
	State() controller.State
}

type ControllerCollector struct {
	source  StateSource
	running *prometheus.Desc
}

func NewControllerCollector(source StateSource) *ControllerCollector {
	return &ControllerCollector{
		source: source,
		running: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "running"),
			"1 if the control loop is running, 0 otherwise",
			nil, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.running
}

func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	value := 0.0
	if collector.source.State() == controller.Running {
		value = 1
	}
	ch <- prometheus.MustNewConstMetric(collector.running, prometheus.GaugeValue, value)
}
