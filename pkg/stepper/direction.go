package stepper

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/gpio"
)

// ErrInvalidDirection is returned when text does not name a direction.
var ErrInvalidDirection = errors.New("invalid direction")

// Direction is the rotation sense of a step.
type Direction int

const (
	// CW drives the direction line high and decrements the counter.
	CW Direction = iota + 1
	// CCW drives the direction line low and increments the counter.
	CCW
)

// ParseDirection accepts "CW" or "CCW" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CW":
		return CW, nil
	case "CCW":
		return CCW, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

func (d Direction) String() string {
	switch d {
	case CW:
		return "CW"
	case CCW:
		return "CCW"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Valid reports whether d is CW or CCW.
func (d Direction) Valid() bool {
	return d == CW || d == CCW
}

// Level is the direction line level for d.
func (d Direction) Level() gpio.Level {
	return d == CW
}

// Delta is the counter change per step taken in d.
func (d Direction) Delta() int {
	if d == CW {
		return -1
	}
	return 1
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
