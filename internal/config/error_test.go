package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError_ValidationErrors(t *testing.T) {
	err := &ConfigError{
		Path:   "slate.toml",
		Errors: []string{"player.speed must be between 0.5 and 5.0, got 9"},
	}

	assert.True(t, err.HasErrors())
	msg := err.Error()
	assert.Contains(t, msg, "config slate.toml:")
	assert.Contains(t, msg, "validation failed:")
	assert.Contains(t, msg, "player.speed must be between 0.5 and 5.0, got 9")
}

func TestConfigError_MissingAndErrorsCombined(t *testing.T) {
	err := &ConfigError{
		Missing: []string{"SLATE_DB"},
		Errors:  []string{"accelerator.vendor is required when enabled"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "missing environment variables: SLATE_DB")
	assert.Contains(t, msg, "validation failed:")
	assert.Contains(t, msg, "  - accelerator.vendor is required when enabled")
}

func TestConfigError_Empty(t *testing.T) {
	err := &ConfigError{Path: "slate.toml"}
	assert.False(t, err.HasErrors())
	assert.Equal(t, "", err.Error())
}
