package control

import (
	"fmt"

	"github.com/gwillem/steparm/pkg/robot"
	"github.com/gwillem/steparm/pkg/stepper"
)

// Command is a discrete request from an input source (keyboard, buttons).
type Command int

const (
	JogBaseCW Command = iota + 1
	JogBaseCCW
	JogJointOneCW
	JogJointOneCCW
	JogJointTwoCW
	JogJointTwoCCW
	ZeroCounters
	Home
	Snapshot
)

var commandNames = map[Command]string{
	JogBaseCW:      "jog base CW",
	JogBaseCCW:     "jog base CCW",
	JogJointOneCW:  "jog joint one CW",
	JogJointOneCCW: "jog joint one CCW",
	JogJointTwoCW:  "jog joint two CW",
	JogJointTwoCCW: "jog joint two CCW",
	ZeroCounters:   "zero counters",
	Home:           "home",
	Snapshot:       "snapshot",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// JogCommand returns the jog command for a joint index and direction.
func JogCommand(joint int, dir stepper.Direction) (Command, bool) {
	if joint < 0 || joint >= robot.NumJoints || !dir.Valid() {
		return 0, false
	}
	cmd := JogBaseCW + Command(joint*2)
	if dir == stepper.CCW {
		cmd++
	}
	return cmd, true
}

// Jog reports the joint index and direction of a jog command.
func (c Command) Jog() (joint int, dir stepper.Direction, ok bool) {
	if c < JogBaseCW || c > JogJointTwoCCW {
		return 0, 0, false
	}
	off := int(c - JogBaseCW)
	dir = stepper.CW
	if off%2 == 1 {
		dir = stepper.CCW
	}
	return off / 2, dir, true
}

// Keys for manual control.
var keyCommands = map[string]Command{
	"d": JogBaseCW,
	"a": JogBaseCCW,
	"w": JogJointOneCW,
	"s": JogJointOneCCW,
	"i": JogJointTwoCW,
	"k": JogJointTwoCCW,
	"t": Snapshot,
	"c": ZeroCounters,
}

// KeyCommand maps a manual-control key to its command.
func KeyCommand(key string) (Command, bool) {
	cmd, ok := keyCommands[key]
	return cmd, ok
}
