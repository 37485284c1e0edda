package sensor

import (
	"errors"
	"runtime/debug"
	"time"

	rpio "github.com/stianeikeland/go-rpio/v4"
)

const (
	maxWait = int64(time.Millisecond) // 1ms
)

// ErrChecksum is returned when no DHT22 read passed its checksum.
var ErrChecksum = errors.New("dht22 checksum mismatch")

// Reading is one measurement from the station's sensors.
type Reading struct {
	TempC      float32 // temperature in C
	Humidity   float32 // relative humidity in %
	DistanceCM float64 // distance to nearest object in cm
	Time       time.Time
}

// TempF returns the temperature in F.
func (r Reading) TempF() float32 {
	return CToF(r.TempC)
}

// CToF converts celsius to fahrenheit.
func CToF(c float32) float32 {
	return c*9/5 + 32
}

// Therm reads a DHT22 temperature/humidity sensor.
type Therm struct {
	pin rpio.Pin
}

// NewTherm returns a DHT22 reader on the given pin. rpio.Open must have been called.
func NewTherm(p int) *Therm {
	return &Therm{pin: rpio.Pin(p)}
}

// ReadTherm makes up to 10 attempts to get a reading that passes the checksum.
// The DHT22 needs ~2s between reads, includeWait sleeps for that first.
func (t *Therm) ReadTherm(includeWait bool) (float32, float32, error) {
	for i := 0; i < 10; i++ {
		debug.SetGCPercent(-1)
		pulses := readDHT22(t.pin, includeWait)
		debug.SetGCPercent(100)
		temp, humi, ok := decodeDHT22(pulses)
		if ok {
			return temp, humi, nil
		}
		includeWait = true // force a wait between readings
	}
	return 0, 0, ErrChecksum
}

func readDHT22(pin rpio.Pin, includeWait bool) []int64 {
	// early allocations before time critical code
	pulseLen := make([]int64, 82)

	if includeWait {
		time.Sleep(1700 * time.Millisecond)
	}
	pin.Mode(rpio.Output)
	pin.High()

	// send init values
	time.Sleep(400 * time.Millisecond)
	pin.Low()

	// spinlock for milliseconds while pin is low.
	// this signals the request for reading
	s := time.Now().UnixNano()
	to := int64(time.Millisecond * 20)
	for time.Now().UnixNano()-s < to {
	}
	pin.Mode(rpio.Input)
	pin.PullUp()

	// now we wait for DHT to pull low
	s = time.Now().UnixNano()
	firstWaitMax := int64(time.Millisecond * 5)
	for pin.Read() == rpio.High {
		if time.Now().UnixNano()-s > firstWaitMax {
			return nil // DHT never pulled low... probably retry
		}
	}

	// DHT pulls low for 80us and then 80us to signal its starting
	// After that we read 40 low and 40 high pulses.
	var end int64
READER:
	for i := 0; i < 81; i += 2 {
		s = 0
		end = 0
		for pin.Read() == rpio.Low {
			if end-s > maxWait {
				break READER
			}
			end++
		}
		pulseLen[i] = end - s

		s = 0
		end = 0
		for pin.Read() == rpio.High {
			if end-s > maxWait {
				break READER
			}
			end++
		}
		pulseLen[i+1] = end - s
	}
	pin.PullOff()
	return pulseLen
}

// decodeDHT22 turns the 82 pulse lengths of a read into temperature(C) and humidity.
// High pulses longer than the average low pulse are 1 bits.
func decodeDHT22(pulseLen []int64) (float32, float32, bool) {
	if len(pulseLen) < 82 {
		return -1, -1, false
	}
	var threshold int64
	for i := 2; i < 82; i += 2 {
		threshold += pulseLen[i]
	}
	threshold /= 40

	bytes := make([]uint8, 5)
	for i := 3; i < 82; i += 2 {
		bi := (i - 3) / 16
		bytes[bi] <<= 1
		if pulseLen[i] > threshold {
			bytes[bi] |= 0x01
		}
	}

	humidity := float32(uint16(bytes[0])*256+uint16(bytes[1])) / 10.0
	temperature := float32((uint16(bytes[2])&0x7F)*256+uint16(bytes[3])) / 10.0
	if uint16(bytes[2])&0x80 > 0 {
		temperature *= -1
	}
	return temperature, humidity, checksum(bytes)
}

func checksum(bytes []uint8) bool {
	var sum uint8
	for i := 0; i < 4; i++ {
		sum += bytes[i]
	}
	return sum == bytes[4]
}
