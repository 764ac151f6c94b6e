package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func testPeriph(pins ...*gpiotest.Pin) *Periph {
	byName := make(map[string]gpio.PinIO, len(pins))
	for _, p := range pins {
		byName[p.N] = p
	}
	return newPeriph(func(name string) gpio.PinIO {
		if p, ok := byName[name]; ok {
			return p
		}
		return nil
	})
}

func TestHeaderName(t *testing.T) {
	assert.Equal(t, "P1_3", HeaderName(3))
	assert.Equal(t, "P1_40", HeaderName(40))
}

func TestPeriph_Output(t *testing.T) {
	step := &gpiotest.Pin{N: "P1_3", Num: 2, L: gpio.High}
	p := testPeriph(step)

	require.NoError(t, p.SetupOutput(3))
	assert.Equal(t, gpio.Low, step.Read(), "output must start low")

	require.NoError(t, p.Write(3, gpio.High))
	assert.Equal(t, gpio.High, step.Read())

	l, err := p.Read(3)
	require.NoError(t, err)
	assert.Equal(t, gpio.High, l)
}

func TestPeriph_Input(t *testing.T) {
	button := &gpiotest.Pin{N: "P1_15", Num: 22}
	p := testPeriph(button)

	require.NoError(t, p.SetupInput(15))
	assert.Equal(t, gpio.PullUp, button.Pull())

	button.Lock()
	button.L = gpio.High
	button.Unlock()

	l, err := p.Read(15)
	require.NoError(t, err)
	assert.Equal(t, gpio.High, l)
}

func TestPeriph_Errors(t *testing.T) {
	p := testPeriph(&gpiotest.Pin{N: "P1_3", Num: 2})

	assert.Error(t, p.SetupOutput(99), "unknown pin")
	assert.Error(t, p.Write(3, gpio.High), "write before setup")
	_, err := p.Read(3)
	assert.Error(t, err, "read before setup")
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	require.NoError(t, r.SetupOutput(3))
	require.NoError(t, r.SetupInput(15))
	assert.Equal(t, Output, r.Mode(3))
	assert.Equal(t, Input, r.Mode(15))
	assert.Equal(t, gpio.High, r.Level(15), "pull-up input idles high")

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Write(3, gpio.Low))
		require.NoError(t, r.Write(3, gpio.High))
	}
	assert.Equal(t, 3, r.RisingEdges(3))
	assert.Len(t, r.Writes(3), 6)

	assert.Error(t, r.Write(15, gpio.High), "input pins cannot be written")

	r.Set(15, gpio.Low)
	l, err := r.Read(15)
	require.NoError(t, err)
	assert.Equal(t, gpio.Low, l)

	boom := errors.New("boom")
	r.Fail(3, boom)
	assert.ErrorIs(t, r.Write(3, gpio.Low), boom)
	r.Fail(3, nil)
	assert.NoError(t, r.Write(3, gpio.Low))

	r.Reset()
	assert.Empty(t, r.Writes(3))
}
