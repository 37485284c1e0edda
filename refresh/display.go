package refresh

import (
	"strings"
	"sync"
)

// Snapshot is the set of values extracted from one response of the station.
// It is built fresh every cycle and thrown away once the display is updated.
type Snapshot struct {
	Temperature  string `json:"temperature"`
	Distance     string `json:"distance"`
	AlertMessage string `json:"alertMessage"`
}

// Display is the set of live regions a refresh cycle writes to.
type Display interface {
	SetTemperature(text string)
	SetDistance(text string)
	ShowAlert(text string) // sets the banner text and makes it visible
	HideAlert()            // hides the banner, text is left alone
}

// Apply copies a snapshot onto the display.
// Temperature and distance are passed through untouched.
// A blank alert hides the banner without clearing its text so the
// old message is still there on the next show.
func Apply(d Display, s Snapshot) {
	d.SetTemperature(s.Temperature)
	d.SetDistance(s.Distance)
	if msg := strings.TrimSpace(s.AlertMessage); msg != "" {
		d.ShowAlert(msg)
	} else {
		d.HideAlert()
	}
}

// ViewState is what a View is currently showing.
type ViewState struct {
	Temperature  string
	Distance     string
	AlertText    string
	AlertVisible bool
}

// View is an in-memory Display safe for concurrent cycles.
// Each region is last writer wins.
type View struct {
	mu    sync.Mutex
	state ViewState
}

// NewView returns a view showing the given initial state.
func NewView(initial ViewState) *View {
	return &View{state: initial}
}

func (v *View) SetTemperature(text string) {
	v.mu.Lock()
	v.state.Temperature = text
	v.mu.Unlock()
}

func (v *View) SetDistance(text string) {
	v.mu.Lock()
	v.state.Distance = text
	v.mu.Unlock()
}

func (v *View) ShowAlert(text string) {
	v.mu.Lock()
	v.state.AlertText = text
	v.state.AlertVisible = true
	v.mu.Unlock()
}

func (v *View) HideAlert() {
	v.mu.Lock()
	v.state.AlertVisible = false
	v.mu.Unlock()
}

// State returns a copy of the current state.
func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}
