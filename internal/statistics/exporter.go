package statistics

import (
	"github.com/fancontrol/fancontrol/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "fancontrol"
)

// Register registers all collectors of the given service
func Register(registerer prometheus.Registerer, s *service.Service) error {
	collectors := []prometheus.Collector{
		NewFanCollector(s),
		NewSensorCollector(s, s.Config().HwMon.TempSensor),
		NewAlertCollector(s.Alerts()),
		NewHistoryCollector(s.History()),
		NewControllerCollector(s.Loop()),
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
