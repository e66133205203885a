package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, command := range Commands() {
		assert.False(t, names[command.Name], "duplicate command %s", command.Name)
		names[command.Name] = true
	}

	for _, name := range []string{"training-data", "eval", "test-config", "version"} {
		assert.True(t, names[name], "missing command %s", name)
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "0.9", f(0.9))
	assert.Equal(t, "0", f(0))
	assert.Equal(t, "12", i(12))
}
