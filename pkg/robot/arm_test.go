package robot

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/steparm/pkg/board"
	"github.com/gwillem/steparm/pkg/stepper"
)

func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Joints[Base] = JointConfig{StepPin: 3, DirPin: 5, StepsPerDegree: 2}
	cfg.Joints[JointOne] = JointConfig{StepPin: 7, DirPin: 8, StepsPerDegree: 4.5}
	cfg.Joints[JointTwo] = JointConfig{StepPin: 11, DirPin: 13, StepsPerDegree: 10}
	return cfg
}

func newTestArm(t *testing.T) (*Arm, *board.Recorder) {
	t.Helper()
	b := board.NewRecorder()
	a, err := NewArm(b, testConfig(), stepper.WithSleeper(noSleep))
	require.NoError(t, err)
	b.Reset()
	return a, b
}

func TestNewArm_InvalidConfig(t *testing.T) {
	_, err := NewArm(board.NewRecorder(), DefaultConfig())
	assert.Error(t, err, "default config has no steps per degree")
}

func TestMoveJoint(t *testing.T) {
	ctx := context.Background()
	a, b := newTestArm(t)

	require.NoError(t, a.MoveJoint(ctx, 0, 5, stepper.CW, 0))
	require.NoError(t, a.MoveJoint(ctx, 1, 3, stepper.CCW, 0))
	require.NoError(t, a.MoveJoint(ctx, 2, 0, stepper.CW, 0))

	diag := a.Diagnostics()
	assert.Equal(t, -5, diag.Joints[0].Steps)
	assert.Equal(t, 3, diag.Joints[1].Steps)
	assert.Equal(t, 0, diag.Joints[2].Steps)
	assert.Equal(t, 5, b.RisingEdges(3))
	assert.Equal(t, 3, b.RisingEdges(7))
	assert.Equal(t, 0, b.RisingEdges(11))
}

func TestMoveJoint_InvalidIndex(t *testing.T) {
	a, b := newTestArm(t)

	for _, i := range []int{-1, 3, 100} {
		err := a.MoveJoint(context.Background(), i, 5, stepper.CW, 0)
		assert.ErrorIs(t, err, ErrInvalidJoint, "index %d", i)
	}
	for _, pin := range []int{3, 7, 11} {
		assert.Empty(t, b.Writes(pin))
	}
}

func TestMoveToPose(t *testing.T) {
	ctx := context.Background()
	a, b := newTestArm(t)

	pose := Pose{10, -10, 0}
	require.NoError(t, a.MoveToPose(ctx, pose))

	diag := a.Diagnostics()
	assert.Equal(t, 20, diag.Joints[0].Steps)
	assert.Equal(t, -45, diag.Joints[1].Steps)
	assert.Equal(t, 0, diag.Joints[2].Steps)
	assert.Equal(t, 20, b.RisingEdges(3))
	assert.Equal(t, 45, b.RisingEdges(7))
	assert.Equal(t, 0, b.RisingEdges(11))

	for i, name := range AllJoints() {
		spd := testConfig().Joints[name].StepsPerDegree
		assert.LessOrEqual(t, math.Abs(diag.Joints[i].Angle-pose[i]), 1/spd, "joint %s", name)
	}
}

func TestMoveToPose_Resolution(t *testing.T) {
	a, _ := newTestArm(t)

	pose := Pose{1.3, 1.3, 1.37}
	require.NoError(t, a.MoveToPose(context.Background(), pose))
	for i, name := range AllJoints() {
		spd := testConfig().Joints[name].StepsPerDegree
		got := a.Diagnostics().Joints[i].Angle
		assert.LessOrEqual(t, math.Abs(got-pose[i]), 1/spd, "joint %s", name)
	}
}

func TestMoveToPose_InvalidAngle(t *testing.T) {
	ctx := context.Background()
	for _, bad := range []float64{math.NaN(), math.Inf(1), 1e300} {
		a, b := newTestArm(t)
		require.NoError(t, a.MoveJoint(ctx, 0, 4, stepper.CCW, 0))
		b.Reset()

		err := a.MoveToPose(ctx, Pose{10, bad, 0})
		assert.ErrorIs(t, err, stepper.ErrInvalidAngle, "angle %v", bad)
		assert.Equal(t, 4, a.Diagnostics().Joints[0].Steps, "no joint moves before the pose is rejected")
		for _, pin := range []int{3, 7, 11} {
			assert.Empty(t, b.Writes(pin))
		}
	}
}

func TestResetAllCounters(t *testing.T) {
	ctx := context.Background()
	a, b := newTestArm(t)
	require.NoError(t, a.MoveToPose(ctx, Pose{5, 5, 5}))
	b.Reset()

	a.ResetAllCounters()
	for _, j := range a.Diagnostics().Joints {
		assert.Equal(t, 0, j.Steps)
		assert.Equal(t, 0.0, j.Angle)
	}
	for _, pin := range []int{3, 7, 11} {
		assert.Empty(t, b.Writes(pin), "soft reset must not move")
	}
}

func TestResetToHome(t *testing.T) {
	ctx := context.Background()
	a, b := newTestArm(t)
	require.NoError(t, a.MoveToPose(ctx, Pose{5, -5, 2}))
	b.Reset()

	require.NoError(t, a.ResetToHome(ctx))
	for _, j := range a.Diagnostics().Joints {
		assert.Equal(t, 0, j.Steps)
	}
	assert.Equal(t, 10, b.RisingEdges(3))
	assert.Equal(t, 23, b.RisingEdges(7)) // round(-22.5) = -23
	assert.Equal(t, 20, b.RisingEdges(11))

	b.Reset()
	require.NoError(t, a.ResetToHome(ctx))
	for _, pin := range []int{3, 7, 11} {
		assert.Equal(t, 0, b.RisingEdges(pin))
	}
}

func TestResetToHome_Cancelled(t *testing.T) {
	a, _ := newTestArm(t)
	require.NoError(t, a.MoveJoint(context.Background(), 0, 4, stepper.CW, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.ResetToHome(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, -4, a.Diagnostics().Joints[0].Steps)
}

func TestDiagnostics(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestArm(t)
	require.NoError(t, a.MoveJoint(ctx, 0, 3, stepper.CCW, 0))
	require.NoError(t, a.MoveJoint(ctx, 1, 1, stepper.CW, 0))
	require.NoError(t, a.MoveJoint(ctx, 2, 7, stepper.CCW, 0))

	diag := a.Diagnostics()
	assert.Equal(t, Pose{1.5, -1.0 / 4.5, 0.7}, diag.Angles())

	out := diag.String()
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 8)
	assert.Equal(t, "Diagnostics:", lines[0])
	assert.Equal(t, []string{"Data", "|Base", "Motor|", "|Joint", "1", "Motor|", "|Joint", "2", "Motor|"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Steps", "3", "-1", "7"}, strings.Fields(lines[4]))
	assert.Empty(t, lines[5])
	assert.Equal(t, []string{"Angles", "1.5", stepper.FormatAngle(-1.0 / 4.5), "0.7"}, strings.Fields(lines[6]))
	assert.Empty(t, lines[7])
}

func TestArm_String(t *testing.T) {
	a, _ := newTestArm(t)
	require.NoError(t, a.MoveJoint(context.Background(), 0, 2, stepper.CW, 0))

	out := a.String()
	assert.True(t, strings.HasPrefix(out, "Motors:\n"))
	assert.Contains(t, out, "Base Motor:\n  steps: -2, angle: -1°")
	assert.Contains(t, out, "Joint 2 Motor:\n  steps: 0, angle: 0°")
}

func TestParseJoint(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"2", 2, true},
		{"base", 0, true},
		{"joint_two", 2, true},
		{"3", 0, false},
		{"-1", 0, false},
		{"wrist", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseJoint(tt.in)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrInvalidJoint, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
