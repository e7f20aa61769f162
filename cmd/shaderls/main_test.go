package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeSubcommandIsRegistered(t *testing.T) {
	root := newRootCommand()
	cmd, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", cmd.Name())
}

func TestServeFlagsHaveExpectedDefaults(t *testing.T) {
	root := newRootCommand()
	cmd, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)

	verbosity, err := cmd.Flags().GetInt("verbosity")
	require.NoError(t, err)
	assert.Equal(t, 1, verbosity)

	validatorPath, err := cmd.Flags().GetString("validator")
	require.NoError(t, err)
	assert.Empty(t, validatorPath)
}
