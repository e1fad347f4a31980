package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.NotNil(t, rootCmd, "rootCmd should be defined")
	assert.Equal(t, "finance-tracker", rootCmd.Use)
	assert.Contains(t, rootCmd.Short, "Categorize bank and credit card")
	assert.Contains(t, rootCmd.Long, "Finance Tracker")
}

func TestGenerateCommand(t *testing.T) {
	assert.Equal(t, "generate", generateCmd.Use)
	require.NotNil(t, generateCmd.RunE)

	for _, flag := range []string{"config", "bank-dir", "credit-card-dir", "output", "verbose"} {
		assert.NotNil(t, generateCmd.Flags().Lookup(flag), "flag %s should be registered", flag)
	}
}

func TestGenerateCommand_MissingConfig(t *testing.T) {
	configPath = "nonexistent.json"
	err := runGenerate(generateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
