package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/metra/internal/config"
)

func flagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "metra"}
	cmd.Flags().StringVar(&dataMode, "mode", "", "")
	cmd.Flags().StringVar(&collision, "collision", "", "")
	cmd.Flags().Int64Var(&seed, "seed", 0, "")
	cmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	c, err := resolveConfig(flagCommand(t))
	require.NoError(t, err)
	assert.Equal(t, config.ModeMock, c.Data.Mode)
	assert.Equal(t, config.DefaultWidth, c.Canvas.Width)
}

func TestResolveConfigFlagsOverride(t *testing.T) {
	c, err := resolveConfig(flagCommand(t, "--mode", "live", "--collision", "elastic", "--seed", "7", "--width", "1200"))
	require.NoError(t, err)
	assert.Equal(t, config.ModeLive, c.Data.Mode)
	assert.Equal(t, "elastic", c.Physics.Collision)
	assert.Equal(t, int64(7), c.Physics.Seed)
	assert.Equal(t, 1200.0, c.Canvas.Width)
}

func TestResolveConfigPreset(t *testing.T) {
	presetName = "calm"
	t.Cleanup(func() { presetName = "" })

	c, err := resolveConfig(flagCommand(t))
	require.NoError(t, err)
	assert.Equal(t, 0.95, c.Physics.Friction)

	presetName = "wobbly"
	_, err = resolveConfig(flagCommand(t))
	assert.ErrorIs(t, err, config.ErrUnknownPreset)
}

func TestResolveConfigRejectsBadMode(t *testing.T) {
	_, err := resolveConfig(flagCommand(t, "--mode", "offline"))
	assert.Error(t, err)
}
