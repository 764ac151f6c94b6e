package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gwillem/steparm/pkg/board"
	"github.com/gwillem/steparm/pkg/robot"
)

var (
	errNoConfig     = errors.New("no configuration found")
	errUncalibrated = errors.New("steps per degree not set")
)

// loadConfig reads a calibrated configuration from path.
func loadConfig(path string) (*robot.Config, error) {
	cfg, err := robot.LoadConfigFrom(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s. Run 'steparm setup' first", errNoConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !cfg.IsCalibrated() {
		return nil, fmt.Errorf("%w in %s. Run 'steparm setup' first", errUncalibrated, path)
	}
	return cfg, nil
}

// openArm loads the configuration, initializes the board and builds the arm.
func openArm() (*robot.Config, board.GPIO, *robot.Arm, error) {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var g board.GPIO
	if opts.DryRun {
		g = board.NewRecorder()
	} else {
		b, err := board.Init()
		if err != nil {
			return nil, nil, nil, err
		}
		g = b
	}

	arm, err := robot.NewArm(g, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, g, arm, nil
}
