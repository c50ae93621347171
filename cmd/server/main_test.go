package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/stripplan/internal/config"
)

func TestParseFlagsLeavesUnsetValuesNil(t *testing.T) {
	overrides, err := parseFlags(nil)
	require.NoError(t, err)

	assert.Empty(t, overrides.ConfigFile)
	assert.Nil(t, overrides.Port)
	assert.Nil(t, overrides.LogLevel)
	assert.Nil(t, overrides.CatalogStr)
	assert.Nil(t, overrides.RollLength)
	assert.Nil(t, overrides.WattsPerMeter)
	assert.Nil(t, overrides.SafetyFactorPercent)
	assert.Nil(t, overrides.SourceMode)
	assert.Nil(t, overrides.RateLimitRPS)
	assert.Nil(t, overrides.RateLimitBurst)
}

func TestParseFlagsPopulatesOverrides(t *testing.T) {
	overrides, err := parseFlags([]string{
		"--config=planner.yaml",
		"--port=9000",
		"--log-level=debug",
		"--catalog=60,100",
		"--roll-length=5",
		"--watts-per-meter=14.4",
		"--safety-factor-percent=0",
		"--source-mode=individual",
		"--rate-limit-rps=0",
		"--rate-limit-burst=10",
	})
	require.NoError(t, err)

	assert.Equal(t, "planner.yaml", overrides.ConfigFile)
	require.NotNil(t, overrides.Port)
	assert.Equal(t, "9000", *overrides.Port)
	require.NotNil(t, overrides.LogLevel)
	assert.Equal(t, "debug", *overrides.LogLevel)
	require.NotNil(t, overrides.CatalogStr)
	assert.Equal(t, "60,100", *overrides.CatalogStr)
	require.NotNil(t, overrides.RollLength)
	assert.InDelta(t, 5.0, *overrides.RollLength, 1e-9)
	require.NotNil(t, overrides.WattsPerMeter)
	assert.InDelta(t, 14.4, *overrides.WattsPerMeter, 1e-9)
	require.NotNil(t, overrides.SafetyFactorPercent)
	assert.Equal(t, 0, *overrides.SafetyFactorPercent)
	require.NotNil(t, overrides.SourceMode)
	assert.Equal(t, config.ModeIndividual, *overrides.SourceMode)
	require.NotNil(t, overrides.RateLimitRPS)
	assert.Zero(t, *overrides.RateLimitRPS)
	require.NotNil(t, overrides.RateLimitBurst)
	assert.Equal(t, 10, *overrides.RateLimitBurst)
}

func TestParseFlagsRejectsUnknownMode(t *testing.T) {
	_, err := parseFlags([]string{"--source-mode=shared"})
	assert.Error(t, err)
}
