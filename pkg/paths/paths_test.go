// Test Type: Unit Test
// Description: Tests for the paths package - patch data directory layout

package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunafish2k/minipatch/pkg/paths"
	"github.com/tunafish2k/minipatch/pkg/testutil"
)

func TestPaths(t *testing.T) {
	t.Run("explicit_data_dir_wins", func(t *testing.T) {
		t.Setenv(paths.EnvDataDir, "/from-env")
		p := paths.New("/explicit")
		assert.Equal(t, "/explicit", p.DataDir())
	})

	t.Run("env_over_xdg_fallback", func(t *testing.T) {
		t.Setenv(paths.EnvDataDir, "/from-env")
		p := paths.New("")
		assert.Equal(t, "/from-env", p.DataDir())
	})

	t.Run("layout", func(t *testing.T) {
		p := paths.New("/data")
		assert.Equal(t, filepath.Join("/data", "legacy"), p.VariantDir(paths.VariantLegacy))
		assert.Equal(t, filepath.Join("/data", "modern", "overrides"), p.OverridesDir(paths.VariantModern))
		assert.Equal(t, filepath.Join("/data", "credits.txt"), p.CreditsTemplate("credits.txt"))
		assert.Equal(t, filepath.Join("/data", "settings.toml"), p.SettingsFile())
	})

	t.Run("rules_file_prefers_json", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/data/legacy", map[string]string{
			"delete.json": "{}",
			"delete.yaml": "",
		})

		p := paths.New("/data")
		assert.Equal(t, filepath.Join("/data", "legacy", "delete.json"), p.RulesFile(fsys, "legacy", "delete"))
	})

	t.Run("rules_file_falls_back_to_yaml", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/data/legacy", map[string]string{
			"delete.yaml": "",
		})

		p := paths.New("/data")
		assert.Equal(t, filepath.Join("/data", "legacy", "delete.yaml"), p.RulesFile(fsys, "legacy", "delete"))
	})

	t.Run("rules_file_defaults_to_json_path", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		require.NoError(t, fsys.MkdirAll("/data/legacy", 0755))

		p := paths.New("/data")
		assert.Equal(t, filepath.Join("/data", "legacy", "delete.json"), p.RulesFile(fsys, "legacy", "delete"))
	})
}

func TestValidVariant(t *testing.T) {
	assert.True(t, paths.ValidVariant(paths.VariantLegacy))
	assert.True(t, paths.ValidVariant(paths.VariantModern))
	assert.False(t, paths.ValidVariant("future"))
}
