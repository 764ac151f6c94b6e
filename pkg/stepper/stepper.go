// Package stepper drives a stepper motor through a step/direction driver board.
//
// The motor is open-loop: the driver keeps a signed step counter as its only
// position estimate and cannot detect missed steps.
package stepper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/gwillem/steparm/pkg/board"
)

const (
	// DefaultStepDelay is the wait after each step.
	DefaultStepDelay = 20 * time.Millisecond
	// DefaultPulseDelay is the wait between driving the step line low and high.
	DefaultPulseDelay = time.Millisecond
	// MaxSteps bounds the absolute step position an angle may map to.
	MaxSteps = math.MaxInt32
)

// ErrInvalidAngle is returned for target angles that cannot be reached.
var ErrInvalidAngle = errors.New("invalid angle")

// Config holds the wiring and timing of one motor.
type Config struct {
	StepPin        int
	DirPin         int
	StepsPerDegree float64
	StepDelay      time.Duration
	PulseDelay     time.Duration
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Option customizes a Driver.
type Option func(*Driver)

// WithSleeper replaces the timing primitive, mostly for tests.
func WithSleeper(s Sleeper) Option {
	return func(d *Driver) {
		d.sleep = s
	}
}

// Driver controls one motor and tracks its position in steps.
type Driver struct {
	gpio    board.GPIO
	cfg     Config
	sleep   Sleeper
	counter int
}

// New configures the step and direction pins as low outputs.
func New(g board.GPIO, cfg Config, opts ...Option) (*Driver, error) {
	if cfg.StepsPerDegree <= 0 || math.IsNaN(cfg.StepsPerDegree) || math.IsInf(cfg.StepsPerDegree, 0) {
		return nil, fmt.Errorf("steps per degree must be positive, got %v", cfg.StepsPerDegree)
	}
	if cfg.StepPin == cfg.DirPin {
		return nil, fmt.Errorf("step and direction share pin %d", cfg.StepPin)
	}
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = DefaultStepDelay
	}
	if cfg.PulseDelay <= 0 {
		cfg.PulseDelay = DefaultPulseDelay
	}

	d := &Driver{
		gpio:  g,
		cfg:   cfg,
		sleep: Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, pin := range []int{cfg.StepPin, cfg.DirPin} {
		if err := g.SetupOutput(pin); err != nil {
			return nil, fmt.Errorf("setup pin %d: %w", pin, err)
		}
		if err := g.Write(pin, gpio.Low); err != nil {
			return nil, fmt.Errorf("clear pin %d: %w", pin, err)
		}
	}
	return d, nil
}

// Config returns the driver's effective configuration.
func (d *Driver) Config() Config {
	return d.cfg
}

// Move takes steps in dir, waiting delay after each step. A delay <= 0 uses
// the configured step delay. If ctx is cancelled the move stops between steps
// and the counter reflects only the steps completed.
func (d *Driver) Move(ctx context.Context, steps int, dir Direction, delay time.Duration) error {
	if !dir.Valid() {
		return fmt.Errorf("move: %w: %d", ErrInvalidDirection, int(dir))
	}
	if delay <= 0 {
		delay = d.cfg.StepDelay
	}

	if err := d.gpio.Write(d.cfg.DirPin, dir.Level()); err != nil {
		return fmt.Errorf("set direction: %w", err)
	}

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.gpio.Write(d.cfg.StepPin, gpio.Low); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if err := d.sleep(ctx, d.cfg.PulseDelay); err != nil {
			return err
		}
		if err := d.gpio.Write(d.cfg.StepPin, gpio.High); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		d.counter += dir.Delta()

		if err := d.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

// Counter returns the signed step count. CW steps are negative.
func (d *Driver) Counter() int {
	return d.counter
}

// AngleDegrees converts the counter to degrees.
func (d *Driver) AngleDegrees() float64 {
	return float64(d.counter) / d.cfg.StepsPerDegree
}

// StepsTo returns the steps and direction needed to reach angle deg.
// Angles that are not finite or lie beyond MaxSteps from zero are rejected.
func (d *Driver) StepsTo(deg float64) (int, Direction, error) {
	target := math.Round(deg * d.cfg.StepsPerDegree)
	if math.IsNaN(target) || math.IsInf(target, 0) || math.Abs(target) > MaxSteps {
		return 0, 0, fmt.Errorf("%w: %v°", ErrInvalidAngle, deg)
	}
	delta := int(target) - d.counter
	if delta < 0 {
		return -delta, CW, nil
	}
	return delta, CCW, nil
}

// MoveToAngle moves to the step closest to deg.
func (d *Driver) MoveToAngle(ctx context.Context, deg float64) error {
	steps, dir, err := d.StepsTo(deg)
	if err != nil {
		return err
	}
	return d.Move(ctx, steps, dir, 0)
}

// MoveToAngleZero drives the counter back to zero.
func (d *Driver) MoveToAngleZero(ctx context.Context) error {
	return d.MoveToAngle(ctx, 0)
}

// ResetCounter zeroes the counter without moving, after the motor has been
// realigned by hand.
func (d *Driver) ResetCounter() {
	d.counter = 0
}

func (d *Driver) String() string {
	return fmt.Sprintf("steps: %d, angle: %s°", d.counter, FormatAngle(d.AngleDegrees()))
}

// FormatAngle prints deg with the shortest representation that parses back exactly.
func FormatAngle(deg float64) string {
	return strconv.FormatFloat(deg, 'f', -1, 64)
}
