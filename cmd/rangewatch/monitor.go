package main

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/lologarithm/rangewatch/alert"
	"gitlab.com/lologarithm/rangewatch/refresh"
	"gitlab.com/lologarithm/rangewatch/sensor"
	"gitlab.com/lologarithm/rangewatch/station"
)

// thermReader returns the next temperature(C) and humidity reading.
type thermReader interface {
	ReadTherm(includeWait bool) (float32, float32, error)
}

// rangeReader returns the distance to the nearest object in cm.
type rangeReader interface {
	ReadDistance() (float64, error)
}

// monitor polls the sensors and emits a snapshot whenever what the page
// would show changes.
type monitor struct {
	name       string
	therm      thermReader
	sonar      rangeReader
	alerts     alert.Settings
	thermEvery time.Duration
	rangeEvery time.Duration
	readErrors *prometheus.CounterVec // may be nil
}

// run blocks until ctx is done, then closes out.
func (m *monitor) run(ctx context.Context, out chan<- station.Snapshot) {
	defer close(out)
	thermTick := time.NewTicker(m.thermEvery)
	defer thermTick.Stop()
	rangeTick := time.NewTicker(m.rangeEvery)
	defer rangeTick.Stop()

	r := sensor.Reading{}
	// first reading is always waited long enough, skip straight to reading!
	haveTherm := m.readTherm(&r)
	haveRange := m.readRange(&r)
	var last refresh.Snapshot
	for {
		if haveTherm && haveRange {
			r.Time = time.Now()
			s := station.FromReading(m.name, r, alert.Evaluate(m.alerts, r))
			if f := s.Format(); f != last {
				last = f
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-thermTick.C:
			haveTherm = m.readTherm(&r) || haveTherm
		case <-rangeTick.C:
			haveRange = m.readRange(&r) || haveRange
		}
	}
}

func (m *monitor) readTherm(r *sensor.Reading) bool {
	t, h, err := m.therm.ReadTherm(false)
	if err != nil {
		m.failed("therm", err)
		return false
	}
	r.TempC, r.Humidity = t, h
	return true
}

func (m *monitor) readRange(r *sensor.Reading) bool {
	d, err := m.sonar.ReadDistance()
	if err != nil {
		m.failed("sonar", err)
		return false
	}
	r.DistanceCM = d
	return true
}

func (m *monitor) failed(which string, err error) {
	log.Printf("[Error] Failed to read %s: %s", which, err)
	if m.readErrors != nil {
		m.readErrors.WithLabelValues(which).Inc()
	}
}
