package robot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gwillem/steparm/pkg/stepper"
)

const diagColumn = 20

// JointReading is the position of one joint at snapshot time.
type JointReading struct {
	Name  JointName
	Steps int
	Angle float64
}

// Diagnostics is a snapshot of the whole arm.
type Diagnostics struct {
	Joints [NumJoints]JointReading
}

// Angles returns the joint angles in index order.
func (d Diagnostics) Angles() Pose {
	var p Pose
	for i, j := range d.Joints {
		p[i] = j.Angle
	}
	return p
}

// Rows returns the table cells: a header row, then steps and angles.
func (d Diagnostics) Rows() [][]string {
	header := []string{"Data"}
	steps := []string{"Steps"}
	angles := []string{"Angles"}
	for _, j := range d.Joints {
		header = append(header, j.Name.Label())
		steps = append(steps, strconv.Itoa(j.Steps))
		angles = append(angles, stepper.FormatAngle(j.Angle))
	}
	return [][]string{header, steps, angles}
}

// String renders the snapshot as a fixed-width plain-text table.
func (d Diagnostics) String() string {
	rows := d.Rows()

	var sb strings.Builder
	sb.WriteString("Diagnostics:\n\n")
	for i, cell := range rows[0] {
		if i > 0 {
			cell = "|" + cell + "|"
		}
		fmt.Fprintf(&sb, "%-*s", diagColumn, cell)
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", diagColumn*(NumJoints+1)))
	sb.WriteString("\n")
	for _, row := range rows[1:] {
		for _, cell := range row {
			fmt.Fprintf(&sb, "%-*s", diagColumn, cell)
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Summary renders one "steps: N, angle: A°" line per joint.
func (d Diagnostics) Summary() string {
	var sb strings.Builder
	sb.WriteString("Motors:\n")
	sb.WriteString(strings.Repeat("-", 27))
	sb.WriteString("\n")
	for _, j := range d.Joints {
		fmt.Fprintf(&sb, "%s:\n  steps: %d, angle: %s°\n", j.Name.Label(), j.Steps, stepper.FormatAngle(j.Angle))
	}
	return sb.String()
}
