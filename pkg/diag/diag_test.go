// Test Type: Unit Test
// Description: Tests for the diag package - diagnostics sink

package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunafish2k/minipatch/pkg/diag"
)

func TestSink(t *testing.T) {
	s := diag.NewSink()
	assert.Zero(t, s.Len())

	s.Report("minecraft/textures", "directory does not exist")
	s.Report("", "overrides directory does not exist, skipping override step")

	require.Equal(t, 2, s.Len())
	entries := s.Entries()
	assert.Equal(t, "minecraft/textures", entries[0].Path)
	assert.Equal(t, "minecraft/textures: directory does not exist", entries[0].String())
	assert.Equal(t, "overrides directory does not exist, skipping override step", entries[1].String())
}
