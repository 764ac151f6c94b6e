package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/gwillem/steparm/pkg/robot"
)

type Options struct {
	Config string `long:"config" short:"c" default:"steparm.json" description:"Path to the arm configuration file"`
	DryRun bool   `long:"dry-run" description:"Simulate the pins in memory instead of driving the header"`

	Menu  MenuCommand  `command:"menu" alias:"run" description:"Interactive menu: manual, button and home control"`
	Setup SetupCommand `command:"setup" description:"Configure pins and steps per degree"`
	Pose  PoseCommand  `command:"pose" description:"Move all joints to target angles from the zero pose"`
	Jog   JogCommand   `command:"jog" description:"Move one joint a number of steps"`
}

var opts = Options{Config: robot.DefaultConfigFile}
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "steparm - Stepper robot arm control CLI"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
