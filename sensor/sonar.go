package sensor

import (
	"errors"
	"time"

	rpio "github.com/stianeikeland/go-rpio/v4"
)

// speed of sound at ~20C in cm/s
const speedOfSound = 34300

// ErrNoEcho is returned when the sonar echo never started or never ended.
var ErrNoEcho = errors.New("sonar: no echo")

// Sonar reads an HC-SR04 ultrasonic range finder.
type Sonar struct {
	trig    rpio.Pin
	echo    rpio.Pin
	timeout time.Duration
}

// NewSonar sets up the trigger and echo pins. rpio.Open must have been called.
func NewSonar(trigger, echo int) *Sonar {
	s := &Sonar{trig: rpio.Pin(trigger), echo: rpio.Pin(echo), timeout: 30 * time.Millisecond}
	s.trig.Mode(rpio.Output)
	s.trig.Low()
	s.echo.Mode(rpio.Input)
	s.echo.PullDown()
	return s
}

// ReadDistance fires one ping and returns the distance to the nearest object in cm.
func (s *Sonar) ReadDistance() (float64, error) {
	// 10us trigger pulse
	s.trig.High()
	spin(10 * time.Microsecond)
	s.trig.Low()

	start := time.Now()
	for s.echo.Read() == rpio.Low {
		if time.Since(start) > s.timeout {
			return 0, ErrNoEcho
		}
	}
	start = time.Now()
	for s.echo.Read() == rpio.High {
		if time.Since(start) > s.timeout {
			return 0, ErrNoEcho
		}
	}
	return EchoToCentimeters(time.Since(start)), nil
}

// EchoToCentimeters converts the width of an echo pulse to a distance.
// The pulse covers the round trip so it is halved.
func EchoToCentimeters(d time.Duration) float64 {
	return d.Seconds() * speedOfSound / 2
}

// spin busy waits, time.Sleep is far too coarse for microseconds.
func spin(d time.Duration) {
	s := time.Now()
	for time.Since(s) < d {
	}
}
