package board

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// Mode is how a Recorder pin has been set up.
type Mode int

const (
	Unset Mode = iota
	Output
	Input
)

// Write is one level change recorded by a Recorder.
type Write struct {
	Pin   int
	Level gpio.Level
}

// Recorder is an in-memory GPIO. It records every write and lets callers
// drive input levels, which makes it usable both in tests and as a dry-run board.
type Recorder struct {
	mu     sync.Mutex
	modes  map[int]Mode
	levels map[int]gpio.Level
	writes []Write
	fail   map[int]error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		modes:  make(map[int]Mode),
		levels: make(map[int]gpio.Level),
		fail:   make(map[int]error),
	}
}

// SetupOutput marks pin as an output driven low.
func (r *Recorder) SetupOutput(pin int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[pin]; err != nil {
		return err
	}
	r.modes[pin] = Output
	r.levels[pin] = gpio.Low
	return nil
}

// SetupInput marks pin as an input. With the pull-up it idles high.
func (r *Recorder) SetupInput(pin int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[pin]; err != nil {
		return err
	}
	if _, ok := r.levels[pin]; !ok || r.modes[pin] != Input {
		r.levels[pin] = gpio.High
	}
	r.modes[pin] = Input
	return nil
}

// Write records a level change on an output pin.
func (r *Recorder) Write(pin int, l gpio.Level) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[pin]; err != nil {
		return err
	}
	if r.modes[pin] != Output {
		return fmt.Errorf("pin %d: not set up as output", pin)
	}
	r.levels[pin] = l
	r.writes = append(r.writes, Write{Pin: pin, Level: l})
	return nil
}

// Read returns the level of pin.
func (r *Recorder) Read(pin int) (gpio.Level, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[pin]; err != nil {
		return gpio.Low, err
	}
	if r.modes[pin] == Unset {
		return gpio.Low, fmt.Errorf("pin %d: not set up", pin)
	}
	return r.levels[pin], nil
}

// Set drives the level seen by Read, e.g. to simulate a button press.
func (r *Recorder) Set(pin int, l gpio.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[pin] = l
}

// Fail makes every later operation on pin return err. A nil err clears it.
func (r *Recorder) Fail(pin int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, pin)
		return
	}
	r.fail[pin] = err
}

// Mode returns how pin was set up.
func (r *Recorder) Mode(pin int) Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modes[pin]
}

// Level returns the last level of pin.
func (r *Recorder) Level(pin int) gpio.Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.levels[pin]
}

// Writes returns a copy of the writes recorded for pin, in order.
func (r *Recorder) Writes(pin int) []gpio.Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []gpio.Level
	for _, w := range r.writes {
		if w.Pin == pin {
			out = append(out, w.Level)
		}
	}
	return out
}

// RisingEdges counts LOW to HIGH transitions written to pin.
func (r *Recorder) RisingEdges(pin int) int {
	levels := r.Writes(pin)
	n := 0
	prev := gpio.Low
	for _, l := range levels {
		if prev == gpio.Low && l == gpio.High {
			n++
		}
		prev = l
	}
	return n
}

// Reset forgets recorded writes but keeps pin modes and levels.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
}
