// Package steparm drives a three-joint stepper robot arm from a single-board
// computer's header pins.
//
// Each joint is a stepper motor behind a step/direction driver board. The arm
// is open-loop: joint positions are software step counters, lost on restart.
//
// # Installation
//
//	go install github.com/gwillem/steparm/cmd/steparm@latest
//
// # Usage
//
// First, run setup to enter the pin wiring and steps per degree:
//
//	steparm setup
//
// Then start the interactive menu:
//
//	steparm menu
//
// Add --dry-run to simulate the pins without hardware.
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/steparm: CLI with menu, setup, pose and jog commands
//   - pkg/board: Header pin I/O (periph.io) and an in-memory recorder
//   - pkg/stepper: Step/direction motor driver
//   - pkg/robot: Arm control and configuration
//   - pkg/control: Command loop, key mapping and button polling
package steparm
