package robot

import (
	"context"
	"fmt"
	"time"

	"github.com/gwillem/steparm/pkg/board"
	"github.com/gwillem/steparm/pkg/stepper"
)

// Pose is a target angle in degrees for each joint, in index order.
type Pose [NumJoints]float64

// Arm is the three-joint stepper arm. It is not safe for concurrent use.
type Arm struct {
	joints [NumJoints]*stepper.Driver
}

// NewArm sets up a driver per joint on an already initialized board.
func NewArm(g board.GPIO, cfg *Config, opts ...stepper.Option) (*Arm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var a Arm
	for i, name := range AllJoints() {
		d, err := stepper.New(g, cfg.StepperConfig(name), opts...)
		if err != nil {
			return nil, fmt.Errorf("create %s driver: %w", name, err)
		}
		a.joints[i] = d
	}
	return &a, nil
}

// Joint returns the driver at index i.
func (a *Arm) Joint(i int) (*stepper.Driver, error) {
	if err := checkIndex(i); err != nil {
		return nil, err
	}
	return a.joints[i], nil
}

// MoveJoint moves one joint. A delay <= 0 uses the configured step delay.
func (a *Arm) MoveJoint(ctx context.Context, i, steps int, dir stepper.Direction, delay time.Duration) error {
	d, err := a.Joint(i)
	if err != nil {
		return err
	}
	if err := d.Move(ctx, steps, dir, delay); err != nil {
		return fmt.Errorf("move %s: %w", AllJoints()[i], err)
	}
	return nil
}

// MoveToPose moves each joint in turn to its target angle. Joints move one
// after the other, never together.
// Every target is checked before any joint moves.
func (a *Arm) MoveToPose(ctx context.Context, pose Pose) error {
	for i, d := range a.joints {
		if _, _, err := d.StepsTo(pose[i]); err != nil {
			return fmt.Errorf("move %s: %w", AllJoints()[i], err)
		}
	}
	for i, d := range a.joints {
		if err := d.MoveToAngle(ctx, pose[i]); err != nil {
			return fmt.Errorf("move %s to %v°: %w", AllJoints()[i], pose[i], err)
		}
	}
	return nil
}

// ResetAllCounters zeroes every joint's counter without moving.
func (a *Arm) ResetAllCounters() {
	for _, d := range a.joints {
		d.ResetCounter()
	}
}

// ResetToHome drives every joint back to zero.
func (a *Arm) ResetToHome(ctx context.Context) error {
	for i, d := range a.joints {
		if err := d.MoveToAngleZero(ctx); err != nil {
			return fmt.Errorf("home %s: %w", AllJoints()[i], err)
		}
	}
	return nil
}

// Diagnostics returns a snapshot of every joint's position.
func (a *Arm) Diagnostics() Diagnostics {
	var diag Diagnostics
	for i, name := range AllJoints() {
		diag.Joints[i] = JointReading{
			Name:  name,
			Steps: a.joints[i].Counter(),
			Angle: a.joints[i].AngleDegrees(),
		}
	}
	return diag
}

func (a *Arm) String() string {
	return a.Diagnostics().Summary()
}
