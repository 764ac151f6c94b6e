package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/steparm/pkg/robot"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct{}

// jointFields holds the text entered for one joint.
type jointFields struct {
	stepPin, dirPin, stepsPerDegree string
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("steparm setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━"))
	fmt.Println()

	cfg := robot.DefaultConfig()
	if robot.ConfigExists(opts.Config) {
		loaded, err := robot.LoadConfigFrom(opts.Config)
		if err != nil {
			return err
		}
		cfg = loaded
		fmt.Printf("Editing %s\n\n", opts.Config)
	}
	if cfg.Joints == nil {
		cfg.Joints = make(map[robot.JointName]robot.JointConfig)
	}

	fields := make(map[robot.JointName]*jointFields)
	var groups []*huh.Group
	for _, name := range robot.AllJoints() {
		jc := cfg.Joints[name]
		f := &jointFields{
			stepPin:        formatInt(jc.StepPin),
			dirPin:         formatInt(jc.DirPin),
			stepsPerDegree: formatFloat(jc.StepsPerDegree),
		}
		fields[name] = f
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title(name.Label()+": step pin").
				Description("Physical header pin driving STEP").
				Value(&f.stepPin).
				Validate(validatePin),
			huh.NewInput().
				Title(name.Label()+": direction pin").
				Description("Physical header pin driving DIR").
				Value(&f.dirPin).
				Validate(validatePin),
			huh.NewInput().
				Title(name.Label()+": steps per degree").
				Description("Motor steps per revolution × microstepping × gear ratio ÷ 360").
				Value(&f.stepsPerDegree).
				Validate(validateStepsPerDegree),
		))
	}

	stepDelay := formatInt(cfg.StepDelayMs)
	jogSteps := formatInt(cfg.JogSteps)
	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Step delay (ms)").
			Description("Wait after each step; higher is slower and stronger").
			Value(&stepDelay).
			Validate(validatePositiveInt),
		huh.NewInput().
			Title("Jog steps").
			Description("Steps per key press or button poll").
			Value(&jogSteps).
			Validate(validatePositiveInt),
	))

	if err := huh.NewForm(groups...).Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	for _, name := range robot.AllJoints() {
		f := fields[name]
		// Inputs were validated by the form.
		step, _ := strconv.Atoi(f.stepPin)
		dir, _ := strconv.Atoi(f.dirPin)
		spd, _ := strconv.ParseFloat(f.stepsPerDegree, 64)
		cfg.Joints[name] = robot.JointConfig{StepPin: step, DirPin: dir, StepsPerDegree: spd}
	}
	cfg.StepDelayMs, _ = strconv.Atoi(stepDelay)
	cfg.JogSteps, _ = strconv.Atoi(jogSteps)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", opts.Config)
	fmt.Println()
	fmt.Println("Start the menu with: " + headerStyle.Render("steparm menu"))
	return nil
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validatePin(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > 40 {
		return fmt.Errorf("enter a header pin between 1 and 40")
	}
	return nil
}

func validateStepsPerDegree(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive whole number")
	}
	return nil
}
