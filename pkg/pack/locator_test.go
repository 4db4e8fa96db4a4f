// Test Type: Unit Test
// Description: Tests for the pack package - marker-based pack root location

package pack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunafish2k/minipatch/pkg/errors"
	"github.com/tunafish2k/minipatch/pkg/pack"
	"github.com/tunafish2k/minipatch/pkg/testutil"
)

func TestFindRoot(t *testing.T) {
	t.Run("target_is_the_root", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/pack", map[string]string{
			"pack.mcmeta": "{}",
		})

		root, err := pack.FindRoot(fsys, "/pack", "pack.mcmeta")
		require.NoError(t, err)
		assert.Equal(t, "/pack", root)
	})

	t.Run("marker_in_subdirectory", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/downloads", map[string]string{
			"extracted/MyPack/pack.mcmeta":        "{}",
			"extracted/MyPack/assets/x/sound.ogg": "ogg",
		})

		root, err := pack.FindRoot(fsys, "/downloads", "pack.mcmeta")
		require.NoError(t, err)
		assert.Equal(t, "/downloads/extracted/MyPack", root)
	})

	t.Run("first_match_in_sorted_order_wins", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/packs", map[string]string{
			"beta/pack.mcmeta":  "{}",
			"alpha/pack.mcmeta": "{}",
		})

		root, err := pack.FindRoot(fsys, "/packs", "pack.mcmeta")
		require.NoError(t, err)
		assert.Equal(t, "/packs/alpha", root)
	})

	t.Run("shallow_match_beats_deep_match", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/packs", map[string]string{
			"a/deep/nested/pack.mcmeta": "{}",
			"a/pack.mcmeta":             "{}",
		})

		root, err := pack.FindRoot(fsys, "/packs", "pack.mcmeta")
		require.NoError(t, err)
		assert.Equal(t, "/packs/a", root)
	})

	t.Run("missing_directory_is_fatal", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()

		_, err := pack.FindRoot(fsys, "/nowhere", "pack.mcmeta")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("no_marker_anywhere_is_fatal", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/pack", map[string]string{
			"assets/minecraft/sounds.json": "{}",
		})

		_, err := pack.FindRoot(fsys, "/pack", "pack.mcmeta")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrRootNotFound))
	})

	t.Run("marker_must_be_a_file", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/pack", nil, "pack.mcmeta")

		_, err := pack.FindRoot(fsys, "/pack", "pack.mcmeta")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrRootNotFound))
	})
}

func TestAssetsDir(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/pack", map[string]string{
			"assets/minecraft/sounds.json": "{}",
		})

		dir, err := pack.AssetsDir(fsys, "/pack")
		require.NoError(t, err)
		assert.Equal(t, "/pack/assets", dir)
	})

	t.Run("absent_is_fatal", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/pack", map[string]string{
			"pack.mcmeta": "{}",
		})

		_, err := pack.AssetsDir(fsys, "/pack")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrAssetsNotFound))
	})

	t.Run("assets_as_file_is_fatal", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/pack", map[string]string{
			"assets": "not a directory",
		})

		_, err := pack.AssetsDir(fsys, "/pack")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrAssetsNotFound))
	})
}
