package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/nertune/internal/config"
	"github.com/halvard/nertune/internal/optimize"
)

func TestResolveKnobsUsesConfigWhenFlagsUnset(t *testing.T) {
	opt := config.OptimizeConfig{Effort: "heavy", MaxDemos: 8}

	knobs, err := resolveKnobs(false, "light", false, 4, false, opt)
	require.NoError(t, err)
	assert.Equal(t, optimize.EffortHeavy, knobs.Effort)
	assert.Equal(t, 8, knobs.MaxDemos)
}

func TestResolveKnobsFlagOverridesConfig(t *testing.T) {
	opt := config.OptimizeConfig{Effort: "heavy", MaxDemos: 8}

	knobs, err := resolveKnobs(true, "medium", true, 2, false, opt)
	require.NoError(t, err)
	assert.Equal(t, optimize.EffortMedium, knobs.Effort)
	assert.Equal(t, 2, knobs.MaxDemos)
}

func TestResolveKnobsRejectsInvalidConfiguredEffort(t *testing.T) {
	_, err := resolveKnobs(false, "light", false, 4, false, config.OptimizeConfig{Effort: "extreme"})
	assert.Error(t, err)
}

func TestResolveKnobsMinibatchEitherSource(t *testing.T) {
	base := config.OptimizeConfig{Effort: "light", MaxDemos: 4}

	knobs, err := resolveKnobs(false, "light", false, 4, true, base)
	require.NoError(t, err)
	assert.True(t, knobs.DisableMinibatch)

	base.DisableMinibatch = true
	knobs, err = resolveKnobs(false, "light", false, 4, false, base)
	require.NoError(t, err)
	assert.True(t, knobs.DisableMinibatch)
}
