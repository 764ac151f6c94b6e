package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/steparm/pkg/robot"
)

func TestLoadConfig_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steparm.json")

	_, err := loadConfig(path)
	assert.ErrorIs(t, err, errNoConfig)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steparm.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"joints": `), 0644))

	_, err := loadConfig(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errNoConfig)
	assert.Contains(t, err.Error(), "load config: parse "+path)
}

func TestLoadConfig_Uncalibrated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steparm.json")
	require.NoError(t, robot.DefaultConfig().SaveTo(path))

	_, err := loadConfig(path)
	assert.ErrorIs(t, err, errUncalibrated)
}

func TestLoadConfig_Calibrated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steparm.json")
	cfg := robot.DefaultConfig()
	for _, name := range robot.AllJoints() {
		j := cfg.Joints[name]
		j.StepsPerDegree = 2
		cfg.Joints[name] = j
	}
	require.NoError(t, cfg.SaveTo(path))

	got, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, got.IsCalibrated())
}
