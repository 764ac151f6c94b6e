// Package robot provides the three-joint stepper arm and its configuration.
package robot

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidJoint is returned for joint indexes or names outside the arm.
var ErrInvalidJoint = errors.New("invalid joint")

// JointName identifies a joint in the arm.
type JointName string

// Joint names, in index order.
const (
	Base     JointName = "base"
	JointOne JointName = "joint_one"
	JointTwo JointName = "joint_two"
)

// NumJoints is the number of joints on the arm.
const NumJoints = 3

// AllJoints returns all joint names in index order (0=base).
func AllJoints() []JointName {
	return []JointName{
		Base,
		JointOne,
		JointTwo,
	}
}

// Label is the display name used in diagnostics.
func (n JointName) Label() string {
	switch n {
	case Base:
		return "Base Motor"
	case JointOne:
		return "Joint 1 Motor"
	case JointTwo:
		return "Joint 2 Motor"
	}
	return string(n)
}

// JointIndex returns the index of a joint name.
func JointIndex(name JointName) (int, error) {
	for i, n := range AllJoints() {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidJoint, name)
}

// ParseJoint accepts a joint name or its index.
func ParseJoint(s string) (int, error) {
	if i, err := strconv.Atoi(s); err == nil {
		if err := checkIndex(i); err != nil {
			return 0, err
		}
		return i, nil
	}
	return JointIndex(JointName(s))
}

func checkIndex(i int) error {
	if i < 0 || i >= NumJoints {
		return fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidJoint, i, NumJoints)
	}
	return nil
}
