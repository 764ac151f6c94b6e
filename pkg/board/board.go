// Package board provides digital pin I/O for the arm's driver boards and buttons.
//
// Pins are identified by their physical position on the 40-pin header (board
// numbering), not by the chipset's GPIO number.
package board

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIO is the pin capability the stepper drivers and button poller depend on.
type GPIO interface {
	// SetupOutput configures pin as an output driven low.
	SetupOutput(pin int) error
	// SetupInput configures pin as an input with the pull-up enabled.
	SetupInput(pin int) error
	Write(pin int, l gpio.Level) error
	Read(pin int) (gpio.Level, error)
}

// HeaderName returns the periph name of a physical header pin, e.g. "P1_3".
func HeaderName(pin int) string {
	return fmt.Sprintf("P1_%d", pin)
}

// Periph is a GPIO backed by the periph.io pin registry.
type Periph struct {
	lookup func(name string) gpio.PinIO

	mu   sync.Mutex
	pins map[int]gpio.PinIO
}

// Init loads the host drivers and returns a board using the registered pins.
// It must be called once before any pin is set up.
func Init() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}
	return newPeriph(gpioreg.ByName), nil
}

func newPeriph(lookup func(name string) gpio.PinIO) *Periph {
	return &Periph{
		lookup: lookup,
		pins:   make(map[int]gpio.PinIO),
	}
}

func (p *Periph) resolve(pin int) (gpio.PinIO, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if io, ok := p.pins[pin]; ok {
		return io, nil
	}
	io := p.lookup(HeaderName(pin))
	if io == nil {
		return nil, fmt.Errorf("pin %d: not found", pin)
	}
	p.pins[pin] = io
	return io, nil
}

func (p *Periph) configured(pin int) (gpio.PinIO, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	io, ok := p.pins[pin]
	if !ok {
		return nil, fmt.Errorf("pin %d: not set up", pin)
	}
	return io, nil
}

// SetupOutput configures pin as an output driven low.
func (p *Periph) SetupOutput(pin int) error {
	io, err := p.resolve(pin)
	if err != nil {
		return err
	}
	if err := io.Out(gpio.Low); err != nil {
		return fmt.Errorf("pin %d: set output: %w", pin, err)
	}
	return nil
}

// SetupInput configures pin as an input with the pull-up enabled.
func (p *Periph) SetupInput(pin int) error {
	io, err := p.resolve(pin)
	if err != nil {
		return err
	}
	if err := io.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("pin %d: set input: %w", pin, err)
	}
	return nil
}

// Write drives an output pin.
func (p *Periph) Write(pin int, l gpio.Level) error {
	io, err := p.configured(pin)
	if err != nil {
		return err
	}
	if err := io.Out(l); err != nil {
		return fmt.Errorf("pin %d: write %s: %w", pin, l, err)
	}
	return nil
}

// Read returns the current level of pin.
func (p *Periph) Read(pin int) (gpio.Level, error) {
	io, err := p.configured(pin)
	if err != nil {
		return gpio.Low, err
	}
	return io.Read(), nil
}
