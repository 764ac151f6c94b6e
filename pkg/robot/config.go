package robot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gwillem/steparm/pkg/stepper"
)

const DefaultConfigFile = "steparm.json"

// Defaults for the timing fields when left at zero.
const (
	DefaultStepDelayMs  = 20
	DefaultPulseDelayMs = 1
	DefaultJogSteps     = 2
	DefaultPollMs       = 50
)

// Config holds the arm configuration
type Config struct {
	Joints       map[JointName]JointConfig `json:"joints"`
	StepDelayMs  int                       `json:"step_delay_ms,omitempty"`
	PulseDelayMs int                       `json:"pulse_delay_ms,omitempty"`
	JogSteps     int                       `json:"jog_steps,omitempty"`
	PollMs       int                       `json:"poll_ms,omitempty"`
	Buttons      []ButtonBinding           `json:"buttons,omitempty"`
}

// JointConfig holds the wiring of a single joint. Pins use board numbering.
type JointConfig struct {
	StepPin        int     `json:"step_pin"`
	DirPin         int     `json:"dir_pin"`
	StepsPerDegree float64 `json:"steps_per_degree"`
}

// ButtonBinding jogs a joint while the button on Pin is held (active low).
type ButtonBinding struct {
	Pin       int               `json:"pin"`
	Joint     JointName         `json:"joint"`
	Direction stepper.Direction `json:"direction"`
}

// DefaultConfig returns the stock wiring. Steps per degree depend on the
// motors and gearing and are left unset, so the config fails validation
// until setup fills them in.
func DefaultConfig() *Config {
	return &Config{
		Joints: map[JointName]JointConfig{
			Base:     {StepPin: 3, DirPin: 5},
			JointOne: {StepPin: 7, DirPin: 8},
			JointTwo: {StepPin: 11, DirPin: 13},
		},
		StepDelayMs:  DefaultStepDelayMs,
		PulseDelayMs: DefaultPulseDelayMs,
		JogSteps:     DefaultJogSteps,
		PollMs:       DefaultPollMs,
		Buttons: []ButtonBinding{
			{Pin: 15, Joint: Base, Direction: stepper.CW},
			{Pin: 16, Joint: Base, Direction: stepper.CCW},
			{Pin: 18, Joint: JointOne, Direction: stepper.CW},
			{Pin: 22, Joint: JointOne, Direction: stepper.CCW},
		},
	}
}

// Validate checks that every joint is wired, no pin is used twice and
// steps per degree are set.
func (c *Config) Validate() error {
	var errs []error
	used := make(map[int]string)
	claim := func(pin int, owner string) {
		if pin <= 0 {
			errs = append(errs, fmt.Errorf("%s: pin must be positive, got %d", owner, pin))
			return
		}
		if prev, ok := used[pin]; ok {
			errs = append(errs, fmt.Errorf("%s: pin %d already used by %s", owner, pin, prev))
			return
		}
		used[pin] = owner
	}

	for _, name := range AllJoints() {
		jc, ok := c.Joints[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: not configured", name))
			continue
		}
		claim(jc.StepPin, string(name)+" step")
		claim(jc.DirPin, string(name)+" dir")
		if jc.StepsPerDegree <= 0 {
			errs = append(errs, fmt.Errorf("%s: steps_per_degree must be positive", name))
		}
	}
	for name := range c.Joints {
		if _, err := JointIndex(name); err != nil {
			errs = append(errs, err)
		}
	}
	for i, b := range c.Buttons {
		owner := fmt.Sprintf("button %d", i)
		claim(b.Pin, owner)
		if _, err := JointIndex(b.Joint); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", owner, err))
		}
		if !b.Direction.Valid() {
			errs = append(errs, fmt.Errorf("%s: %w", owner, stepper.ErrInvalidDirection))
		}
	}
	for _, v := range []struct {
		name string
		val  int
	}{
		{"step_delay_ms", c.StepDelayMs},
		{"pulse_delay_ms", c.PulseDelayMs},
		{"jog_steps", c.JogSteps},
		{"poll_ms", c.PollMs},
	} {
		if v.val < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", v.name))
		}
	}
	return errors.Join(errs...)
}

// IsCalibrated returns true if every joint has its steps per degree set.
func (c *Config) IsCalibrated() bool {
	for _, name := range AllJoints() {
		if c.Joints[name].StepsPerDegree <= 0 {
			return false
		}
	}
	return true
}

// StepDelay returns the delay after each step.
func (c *Config) StepDelay() time.Duration {
	return msOrDefault(c.StepDelayMs, DefaultStepDelayMs)
}

// PulseDelay returns the delay between the step line's low and high edges.
func (c *Config) PulseDelay() time.Duration {
	return msOrDefault(c.PulseDelayMs, DefaultPulseDelayMs)
}

// PollInterval returns the button poll interval.
func (c *Config) PollInterval() time.Duration {
	return msOrDefault(c.PollMs, DefaultPollMs)
}

// JogStepCount returns how many steps one jog command takes.
func (c *Config) JogStepCount() int {
	if c.JogSteps <= 0 {
		return DefaultJogSteps
	}
	return c.JogSteps
}

// StepperConfig returns the driver configuration of a joint.
func (c *Config) StepperConfig(name JointName) stepper.Config {
	jc := c.Joints[name]
	return stepper.Config{
		StepPin:        jc.StepPin,
		DirPin:         jc.DirPin,
		StepsPerDegree: jc.StepsPerDegree,
		StepDelay:      c.StepDelay(),
		PulseDelay:     c.PulseDelay(),
	}
}

func msOrDefault(ms, def int) time.Duration {
	if ms <= 0 {
		ms = def
	}
	return time.Duration(ms) * time.Millisecond
}

// LoadConfigFrom loads configuration from a specific file
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the config file exists
func ConfigExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
