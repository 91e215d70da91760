package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTemplatesLoad verifies the embedded instructions are present and trimmed.
func TestTemplatesLoad(t *testing.T) {
	require.NotEmpty(t, MaterialsEngineerInstructions)
	assert.Equal(t, strings.TrimSpace(MaterialsEngineerInstructions), MaterialsEngineerInstructions)
}

func TestMaterialsEngineerInstructions_ContainsKeyContent(t *testing.T) {
	assert.True(t, strings.HasPrefix(MaterialsEngineerInstructions, "You are a Materials Engineering Agent."))
	assert.Contains(t, MaterialsEngineerInstructions, "metallurgy")
	assert.Contains(t, MaterialsEngineerInstructions, "materials engineering")
}
