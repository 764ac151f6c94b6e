package control

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/gwillem/steparm/pkg/board"
	"github.com/gwillem/steparm/pkg/robot"
)

// Submitter accepts commands, e.g. a Controller.
type Submitter interface {
	Submit(cmd Command) bool
	Pending() int
}

type button struct {
	pin int
	cmd Command
}

// ButtonPoller jogs joints while their buttons are held. Buttons are wired
// to ground and read LOW when pressed.
type ButtonPoller struct {
	gpio     board.GPIO
	buttons  []button
	interval time.Duration
	out      Submitter
}

// NewButtonPoller configures every bound pin as a pulled-up input.
func NewButtonPoller(g board.GPIO, bindings []robot.ButtonBinding, interval time.Duration, out Submitter) (*ButtonPoller, error) {
	if interval <= 0 {
		interval = time.Duration(robot.DefaultPollMs) * time.Millisecond
	}
	p := &ButtonPoller{
		gpio:     g,
		interval: interval,
		out:      out,
	}
	for _, b := range bindings {
		joint, err := robot.JointIndex(b.Joint)
		if err != nil {
			return nil, fmt.Errorf("button on pin %d: %w", b.Pin, err)
		}
		cmd, ok := JogCommand(joint, b.Direction)
		if !ok {
			return nil, fmt.Errorf("button on pin %d: no command for %s %s", b.Pin, b.Joint, b.Direction)
		}
		if err := g.SetupInput(b.Pin); err != nil {
			return nil, fmt.Errorf("setup button pin %d: %w", b.Pin, err)
		}
		p.buttons = append(p.buttons, button{pin: b.Pin, cmd: cmd})
	}
	return p, nil
}

// Run polls the buttons until ctx is cancelled.
func (p *ButtonPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.Poll(); err != nil {
				return err
			}
		}
	}
}

// Poll reads every button once and submits a jog for each one held. Nothing
// is submitted while earlier commands are still queued, so holding a button
// never builds a backlog.
func (p *ButtonPoller) Poll() error {
	if p.out.Pending() > 0 {
		return nil
	}
	for _, b := range p.buttons {
		l, err := p.gpio.Read(b.pin)
		if err != nil {
			return fmt.Errorf("read button pin %d: %w", b.pin, err)
		}
		if l == gpio.Low {
			p.out.Submit(b.cmd)
		}
	}
	return nil
}
