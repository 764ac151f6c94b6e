// Package control turns input events into arm motion.
//
// All motion runs on the Controller's goroutine, one command at a time, so
// the arm is never driven from two places at once. Input sources only submit
// commands and read published state.
package control

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gwillem/steparm/pkg/robot"
)

const defaultQueueSize = 16

// State is published after every command.
type State struct {
	Diagnostics robot.Diagnostics
	Command     Command
	Timestamp   time.Time
	Error       error
}

// Config holds configuration for the controller.
type Config struct {
	JogSteps  int
	QueueSize int
}

// Controller executes commands against the arm.
type Controller struct {
	arm      *robot.Arm
	jogSteps int

	mu      sync.Mutex
	running bool
	cmdCh   chan Command
	stateCh chan State
	logCh   chan string
}

// NewController creates a controller for arm. The arm must not be used
// elsewhere while the controller runs.
func NewController(arm *robot.Arm, cfg Config) *Controller {
	if cfg.JogSteps <= 0 {
		cfg.JogSteps = robot.DefaultJogSteps
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	return &Controller{
		arm:      arm,
		jogSteps: cfg.JogSteps,
		cmdCh:    make(chan Command, cfg.QueueSize),
		stateCh:  make(chan State, 1),
		logCh:    make(chan string, 10),
	}
}

// States returns a channel that receives state updates. Only the latest
// state is kept.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// JogSteps returns the steps taken per jog command.
func (c *Controller) JogSteps() int {
	return c.jogSteps
}

// Submit queues cmd. It returns false if the queue is full.
func (c *Controller) Submit(cmd Command) bool {
	select {
	case c.cmdCh <- cmd:
		return true
	default:
		c.log("Busy, dropped %s", cmd)
		return false
	}
}

// Pending returns the number of queued commands.
func (c *Controller) Pending() int {
	return len(c.cmdCh)
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start runs the command loop until ctx is cancelled.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	c.sendState(State{
		Diagnostics: c.arm.Diagnostics(),
		Timestamp:   time.Now(),
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-c.cmdCh:
			c.step(ctx, cmd)
		}
	}
}

func (c *Controller) step(ctx context.Context, cmd Command) {
	err := c.execute(ctx, cmd)
	if err != nil && ctx.Err() == nil {
		c.log("%s: %v", cmd, err)
	}
	c.sendState(State{
		Diagnostics: c.arm.Diagnostics(),
		Command:     cmd,
		Timestamp:   time.Now(),
		Error:       err,
	})
}

func (c *Controller) execute(ctx context.Context, cmd Command) error {
	if joint, dir, ok := cmd.Jog(); ok {
		return c.arm.MoveJoint(ctx, joint, c.jogSteps, dir, 0)
	}
	switch cmd {
	case ZeroCounters:
		c.arm.ResetAllCounters()
		c.log("Robot position reset")
	case Home:
		c.log("Homing")
		if err := c.arm.ResetToHome(ctx); err != nil {
			return err
		}
		c.log("Home reached")
	case Snapshot:
	default:
		return fmt.Errorf("unknown command %d", int(cmd))
	}
	return nil
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}
