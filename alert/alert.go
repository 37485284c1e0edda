// Package alert decides when a station reading is worth shouting about.
package alert

import (
	"strings"
	"sync"

	"gitlab.com/lologarithm/rangewatch/sensor"
)

// Default messages shown in the alert banner.
const (
	ProximityMessage = "Object too close!"
	HeatMessage      = "Temperature too high!"
)

// Settings are the thresholds of the alert rules.
// A zero threshold disables its rule.
type Settings struct {
	MinDistanceCM float64 // closer than this trips the proximity alert
	MaxTempF      float32 // hotter than this trips the heat alert
	Proximity     string  // message for the proximity alert
	Heat          string  // message for the heat alert
}

// DefaultSettings are used when the config file doesn't say otherwise.
var DefaultSettings = Settings{
	MinDistanceCM: 20,
	MaxTempF:      100,
	Proximity:     ProximityMessage,
	Heat:          HeatMessage,
}

// Evaluate returns the alert message for a reading, "" if nothing tripped.
func Evaluate(s Settings, r sensor.Reading) string {
	msgs := make([]string, 0, 2)
	if s.MinDistanceCM > 0 && r.DistanceCM < s.MinDistanceCM {
		msgs = append(msgs, orDefault(s.Proximity, ProximityMessage))
	}
	if s.MaxTempF > 0 && r.TempF() > s.MaxTempF {
		msgs = append(msgs, orDefault(s.Heat, HeatMessage))
	}
	return strings.Join(msgs, " ")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Watcher tracks the alert message between readings.
type Watcher struct {
	mu   sync.Mutex
	last string
}

// Observe records the current message. changed is true when it differs from
// the last one, raised when a new non-empty message appeared.
func (w *Watcher) Observe(msg string) (changed, raised bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if msg == w.last {
		return false, false
	}
	w.last = msg
	return true, msg != ""
}
