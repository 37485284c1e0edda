package station

import (
	"testing"
	"time"

	"gitlab.com/lologarithm/rangewatch/refresh"
	"gitlab.com/lologarithm/rangewatch/sensor"
)

func TestFormat(t *testing.T) {
	r := sensor.Reading{TempC: 22.2, Humidity: 40, DistanceCM: 15.04, Time: time.Unix(100, 0)}
	s := FromReading("porch", r, "Object too close!")
	want := refresh.Snapshot{Temperature: "72.0", Distance: "15.0", AlertMessage: "Object too close!"}
	if got := s.Format(); got != want {
		t.Fatalf("Format = %#v, want %#v", got, want)
	}
	if s.Name != "porch" || !s.Time.Equal(r.Time) {
		t.Fatalf("snapshot = %#v", s)
	}
}

func TestStateDisplay(t *testing.T) {
	st := &State{}
	if got := st.Display(); got.Temperature != Placeholder || got.Distance != Placeholder || got.AlertMessage != "" {
		t.Fatalf("empty state display = %#v", got)
	}
	st.Update(Snapshot{TempF: 72, DistanceCM: 15})
	if got := st.Display(); got.Temperature != "72.0" || got.Distance != "15.0" {
		t.Fatalf("display = %#v", got)
	}
	if _, ok := st.Latest(); !ok {
		t.Fatal("Latest not ok after Update")
	}
}
