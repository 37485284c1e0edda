// Package station holds the state of a sensor station.
package station

import (
	"strconv"
	"sync"
	"time"

	"gitlab.com/lologarithm/rangewatch/refresh"
	"gitlab.com/lologarithm/rangewatch/sensor"
)

// Placeholder is shown for values not read yet.
const Placeholder = "--"

// Snapshot is the station state at one instant.
// It is what gets rendered, streamed, broadcast and recorded.
type Snapshot struct {
	Name       string    // Name of station
	Time       time.Time // Time of reading
	TempF      float32   // Last temp reading in F
	Humidity   float32   // Last humidity reading
	DistanceCM float64   // Last distance reading in cm
	Alert      string    // Active alert message, empty if none
}

// FromReading builds a snapshot from a sensor reading and its alert.
func FromReading(name string, r sensor.Reading, alert string) Snapshot {
	return Snapshot{
		Name:       name,
		Time:       r.Time,
		TempF:      r.TempF(),
		Humidity:   r.Humidity,
		DistanceCM: r.DistanceCM,
		Alert:      alert,
	}
}

// Format renders the values the way the page shows them.
func (s Snapshot) Format() refresh.Snapshot {
	return refresh.Snapshot{
		Temperature:  strconv.FormatFloat(float64(s.TempF), 'f', 1, 32),
		Distance:     strconv.FormatFloat(s.DistanceCM, 'f', 1, 64),
		AlertMessage: s.Alert,
	}
}

// State is the latest snapshot of the station, safe for concurrent use.
type State struct {
	mu     sync.RWMutex
	latest Snapshot
	ok     bool
}

// Update replaces the latest snapshot.
func (st *State) Update(s Snapshot) {
	st.mu.Lock()
	st.latest = s
	st.ok = true
	st.mu.Unlock()
}

// Latest returns the latest snapshot and whether there has been one.
func (st *State) Latest() (Snapshot, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.latest, st.ok
}

// Display returns the page values, placeholders before the first reading.
func (st *State) Display() refresh.Snapshot {
	s, ok := st.Latest()
	if !ok {
		return refresh.Snapshot{Temperature: Placeholder, Distance: Placeholder}
	}
	return s.Format()
}
