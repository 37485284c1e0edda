package sensor

import (
	"math"
	"testing"
	"time"
)

// pulsesFor builds the pulse lengths a DHT22 would produce for the given bytes.
func pulsesFor(b [5]uint8) []int64 {
	p := make([]int64, 82)
	for i := 0; i < 82; i += 2 {
		p[i] = 50
	}
	for bit := 0; bit < 40; bit++ {
		idx := 3 + bit*2
		if b[bit/8]&(0x80>>(bit%8)) != 0 {
			p[idx] = 70
		} else {
			p[idx] = 26
		}
	}
	return p
}

func TestDecodeDHT22(t *testing.T) {
	cases := []struct {
		name  string
		bytes [5]uint8
		temp  float32
		humi  float32
		ok    bool
	}{
		{"positive", [5]uint8{0x02, 0x8C, 0x01, 0x5F, 0xEE}, 35.1, 65.2, true},
		{"negative", [5]uint8{0x01, 0xF4, 0x80, 0x65, 0xDA}, -10.1, 50, true},
		{"bad checksum", [5]uint8{0x02, 0x8C, 0x01, 0x5F, 0x00}, 35.1, 65.2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			temp, humi, ok := decodeDHT22(pulsesFor(tc.bytes))
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if math.Abs(float64(temp-tc.temp)) > 0.01 || math.Abs(float64(humi-tc.humi)) > 0.01 {
				t.Fatalf("got %.2fC %.2f%%, want %.2fC %.2f%%", temp, humi, tc.temp, tc.humi)
			}
		})
	}
}

func TestDecodeDHT22ShortRead(t *testing.T) {
	if _, _, ok := decodeDHT22(nil); ok {
		t.Fatal("empty read decoded")
	}
}

func TestEchoToCentimeters(t *testing.T) {
	cases := map[time.Duration]float64{
		0:                      0,
		time.Millisecond:       17.15,
		583 * time.Microsecond: 9.99845,
	}
	for d, want := range cases {
		if got := EchoToCentimeters(d); math.Abs(got-want) > 0.001 {
			t.Errorf("EchoToCentimeters(%s) = %f, want %f", d, got, want)
		}
	}
}

func TestCToF(t *testing.T) {
	if got := CToF(100); got != 212 {
		t.Fatalf("CToF(100) = %f", got)
	}
	if got := (Reading{TempC: 22.2}).TempF(); math.Abs(float64(got)-71.96) > 0.01 {
		t.Fatalf("TempF = %f", got)
	}
}

func TestFakeDistanceSweeps(t *testing.T) {
	f := &Fake{}
	lo, hi := math.MaxFloat64, 0.0
	for i := 0; i < 100; i++ {
		d, err := f.ReadDistance()
		if err != nil {
			t.Fatal(err)
		}
		lo, hi = math.Min(lo, d), math.Max(hi, d)
	}
	if lo > 10 || hi < 100 {
		t.Fatalf("fake distance range %f-%f too narrow", lo, hi)
	}
}
