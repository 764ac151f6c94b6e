package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gwillem/steparm/pkg/robot"
	"github.com/gwillem/steparm/pkg/stepper"
)

type PoseCommand struct {
	Args struct {
		Base     float64 `positional-arg-name:"base" description:"Base angle in degrees"`
		JointOne float64 `positional-arg-name:"joint1" description:"Joint one angle in degrees"`
		JointTwo float64 `positional-arg-name:"joint2" description:"Joint two angle in degrees"`
	} `positional-args:"yes" required:"yes"`
}

func (c *PoseCommand) Execute(args []string) error {
	_, _, arm, err := openArm()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pose := robot.Pose{c.Args.Base, c.Args.JointOne, c.Args.JointTwo}
	err = arm.MoveToPose(ctx, pose)
	fmt.Print(arm.Diagnostics())
	if ctx.Err() != nil {
		fmt.Println("Quitting by keyboard interrupt")
		return nil
	}
	return err
}

type JogCommand struct {
	Delay int `long:"delay-ms" description:"Delay after each step, defaults to step_delay_ms"`
	Args  struct {
		Joint     string `positional-arg-name:"joint" description:"Joint name (base, joint_one, joint_two) or index"`
		Steps     int    `positional-arg-name:"steps"`
		Direction string `positional-arg-name:"direction" description:"CW or CCW"`
	} `positional-args:"yes" required:"yes"`
}

func (c *JogCommand) Execute(args []string) error {
	joint, err := robot.ParseJoint(c.Args.Joint)
	if err != nil {
		return err
	}
	dir, err := stepper.ParseDirection(c.Args.Direction)
	if err != nil {
		return err
	}

	cfg, _, arm, err := openArm()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	delay := cfg.StepDelay()
	if c.Delay > 0 {
		delay = time.Duration(c.Delay) * time.Millisecond
	}
	err = arm.MoveJoint(ctx, joint, c.Args.Steps, dir, delay)
	fmt.Print(arm.Diagnostics())
	if ctx.Err() != nil {
		fmt.Println("Quitting by keyboard interrupt")
		return nil
	}
	return err
}
