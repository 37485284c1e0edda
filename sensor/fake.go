package sensor

import "sync"

// Fake stands in for the real sensors when the gpio pins can't be opened.
// Temperature cycles 20-22C and an object slowly approaches and leaves.
type Fake struct {
	mu    sync.Mutex
	therm int
	dist  int
}

func (f *Fake) ReadTherm(includeWait bool) (float32, float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.therm++
	return 20 + float32(f.therm%3), 50, nil
}

func (f *Fake) ReadDistance() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dist++
	// triangle wave between 5 and 150cm
	step := f.dist % 58
	if step > 29 {
		step = 58 - step
	}
	return 5 + float64(step)*5, nil
}
