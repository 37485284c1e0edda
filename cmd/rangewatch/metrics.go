package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gitlab.com/lologarithm/rangewatch/station"
)

type metrics struct {
	temperature prometheus.Gauge
	humidity    prometheus.Gauge
	distance    prometheus.Gauge
	alertActive prometheus.Gauge
	alerts      prometheus.Counter
	pages       prometheus.Counter
	readErrors  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		temperature: f.NewGauge(prometheus.GaugeOpts{Name: "rangewatch_temperature_fahrenheit", Help: "Last temperature reading."}),
		humidity:    f.NewGauge(prometheus.GaugeOpts{Name: "rangewatch_humidity_percent", Help: "Last humidity reading."}),
		distance:    f.NewGauge(prometheus.GaugeOpts{Name: "rangewatch_distance_centimeters", Help: "Last distance reading."}),
		alertActive: f.NewGauge(prometheus.GaugeOpts{Name: "rangewatch_alert_active", Help: "1 while an alert message is shown."}),
		alerts:      f.NewCounter(prometheus.CounterOpts{Name: "rangewatch_alerts_raised_total", Help: "Alerts raised."}),
		pages:       f.NewCounter(prometheus.CounterOpts{Name: "rangewatch_page_renders_total", Help: "Station pages served."}),
		readErrors:  f.NewCounterVec(prometheus.CounterOpts{Name: "rangewatch_sensor_read_errors_total", Help: "Failed sensor reads."}, []string{"sensor"}),
	}
}

func (m *metrics) observe(s station.Snapshot) {
	m.temperature.Set(float64(s.TempF))
	m.humidity.Set(float64(s.Humidity))
	m.distance.Set(s.DistanceCM)
	if s.Alert != "" {
		m.alertActive.Set(1)
	} else {
		m.alertActive.Set(0)
	}
}
