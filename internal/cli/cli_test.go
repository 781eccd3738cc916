package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/patchbaygo/internal/app"
)

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	config, shouldExit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_HelpFlag(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	_, shouldExit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
}

func TestParse_PositionalPatchPath(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	config, shouldExit, err := Parse([]string{"drone.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, app.CommandPlay, config.Command)
	assert.Equal(t, "drone.hcl", config.PatchPath)
}

func TestParse_PatchFlagWinsOverPositional(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	config, _, err := Parse([]string{"-patch", "a.hcl", "b.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "a.hcl", config.PatchPath)
}

func TestParse_RenderCommand(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	config, _, err := Parse([]string{"-render", "out.wav", "drone.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, app.CommandRender, config.Command)
	assert.Equal(t, "out.wav", config.RenderPath)
	assert.Equal(t, 10*time.Second, config.Duration)
}

func TestParse_ListCommandsNeedNoPath(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		args []string
		want app.Command
	}{
		{[]string{"-list-modules"}, app.CommandListModules},
		{[]string{"-list-patches"}, app.CommandListPatches},
		{[]string{"-list-devices"}, app.CommandListDevices},
	} {
		var out bytes.Buffer
		config, shouldExit, err := Parse(tc.args, &out)
		require.NoError(t, err)
		require.False(t, shouldExit)
		assert.Equal(t, tc.want, config.Command)
	}
}

func TestParse_SearchAndFavorite(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	config, _, err := Parse([]string{"-search", "delay"}, &out)
	require.NoError(t, err)
	assert.Equal(t, app.CommandSearch, config.Command)
	assert.Equal(t, "delay", config.Query)

	config, _, err = Parse([]string{"-favorite", "oscillator"}, &out)
	require.NoError(t, err)
	assert.Equal(t, app.CommandFavorite, config.Command)
	assert.Equal(t, "oscillator", config.Query)
}

func TestParse_InvalidLogSettings(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	_, _, err := Parse([]string{"-log-format", "xml", "drone.hcl"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)

	_, _, err = Parse([]string{"-log-level", "verbose", "drone.hcl"}, &out)
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_EngineDefaultsApplied(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	config, _, err := Parse([]string{"drone.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 44100, config.SampleRate)
	assert.Equal(t, 1024, config.BlockSize)
}

func TestParse_DeviceSelection(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	config, _, err := Parse([]string{"-device", "USB Audio", "drone.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "USB Audio", config.Device)

	config, _, err = Parse([]string{"drone.hcl"}, &out)
	require.NoError(t, err)
	assert.Empty(t, config.Device, "default is the system output device")
}
