// Test Type: Integration Test
// Description: End-to-end patch pipeline over the in-memory filesystem

package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunafish2k/minipatch/pkg/core"
	"github.com/tunafish2k/minipatch/pkg/errors"
	"github.com/tunafish2k/minipatch/pkg/testutil"
)

const rulesDoc = `{
	"assets": {
		"minecraft": {
			"sounds.json": "delete",
			"textures": ["preserve", {
				"block": "preserve",
				"gui": "preserve"
			}]
		}
	}
}`

func setupDataDir(t *testing.T, fsys *testutil.MemoryFS) {
	t.Helper()
	testutil.WriteTree(t, fsys, "/data", map[string]string{
		"legacy/delete.json": rulesDoc,
		"legacy/overrides/assets/minecraft/textures/gui/icons.png": "mini icons",
		"credits.txt": "MINI edition by TunaFish2K",
	})
}

func setupPack(t *testing.T, fsys *testutil.MemoryFS) {
	t.Helper()
	testutil.WriteTree(t, fsys, "/work/MyPack", map[string]string{
		"pack.mcmeta":                              `{"pack": {"pack_format": 8, "description": "Foo"}}`,
		"credits.txt":                              "Original by UpstreamArtist",
		"assets/minecraft/sounds.json":             "{}",
		"assets/minecraft/textures/block/dirt.png": "png",
		"assets/minecraft/textures/item/stick.png": "png",
		"assets/minecraft/textures/gui/old.png":    "png",
	})
}

func TestPatchPack(t *testing.T) {
	t.Run("full_pipeline", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		setupDataDir(t, fsys)
		setupPack(t, fsys)

		result, err := core.PatchPack(core.PatchPackOptions{
			PackDir:    "/work",
			Variant:    "legacy",
			DataDir:    "/data",
			FileSystem: fsys,
		})
		require.NoError(t, err)

		assert.Equal(t, "/work/MyPack", result.PackRoot)
		assert.Equal(t, 1, result.Namespaces)
		assert.Equal(t, 1, result.FilesCopied)
		assert.Empty(t, result.Diagnostics)

		// Pruning: whitelist kept block and gui, removed item; leaf
		// removed sounds.json
		testutil.AssertNotExists(t, fsys, "/work/MyPack/assets/minecraft/sounds.json")
		testutil.AssertNotExists(t, fsys, "/work/MyPack/assets/minecraft/textures/item")
		testutil.AssertExists(t, fsys, "/work/MyPack/assets/minecraft/textures/block/dirt.png")

		// Overlay: override landed on top of the pruned tree
		data, err := fsys.ReadFile("/work/MyPack/assets/minecraft/textures/gui/icons.png")
		require.NoError(t, err)
		assert.Equal(t, "mini icons", string(data))

		// Description patch
		meta, err := fsys.ReadFile("/work/MyPack/pack.mcmeta")
		require.NoError(t, err)
		var doc struct {
			Pack struct {
				Description string `json:"description"`
			} `json:"pack"`
		}
		require.NoError(t, json.Unmarshal(meta, &doc))
		assert.Equal(t, "§dMINI §7Foo\n§8modified by §7TunaFish2K", doc.Pack.Description)

		// Credits patch
		credits, err := fsys.ReadFile("/work/MyPack/credits.txt")
		require.NoError(t, err)
		assert.Equal(t, "Original by UpstreamArtist\n\nMINI edition by TunaFish2K\n", string(credits))
	})

	t.Run("second_run_is_stable", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		setupDataDir(t, fsys)
		setupPack(t, fsys)

		opts := core.PatchPackOptions{
			PackDir:    "/work",
			Variant:    "legacy",
			DataDir:    "/data",
			FileSystem: fsys,
		}

		_, err := core.PatchPack(opts)
		require.NoError(t, err)

		meta1, err := fsys.ReadFile("/work/MyPack/pack.mcmeta")
		require.NoError(t, err)
		credits1, err := fsys.ReadFile("/work/MyPack/credits.txt")
		require.NoError(t, err)

		_, err = core.PatchPack(opts)
		require.NoError(t, err)

		meta2, err := fsys.ReadFile("/work/MyPack/pack.mcmeta")
		require.NoError(t, err)
		credits2, err := fsys.ReadFile("/work/MyPack/credits.txt")
		require.NoError(t, err)

		assert.Equal(t, string(meta1), string(meta2))
		assert.Equal(t, string(credits1), string(credits2))
	})

	t.Run("dry_run_changes_nothing", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		setupDataDir(t, fsys)
		setupPack(t, fsys)

		result, err := core.PatchPack(core.PatchPackOptions{
			PackDir:    "/work",
			Variant:    "legacy",
			DataDir:    "/data",
			DryRun:     true,
			FileSystem: fsys,
		})
		require.NoError(t, err)
		assert.True(t, result.DryRun)

		testutil.AssertExists(t, fsys, "/work/MyPack/assets/minecraft/sounds.json")
		testutil.AssertExists(t, fsys, "/work/MyPack/assets/minecraft/textures/item/stick.png")

		meta, err := fsys.ReadFile("/work/MyPack/pack.mcmeta")
		require.NoError(t, err)
		assert.Equal(t, `{"pack": {"pack_format": 8, "description": "Foo"}}`, string(meta))
	})

	t.Run("missing_rules_file_is_fatal", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		setupPack(t, fsys)

		_, err := core.PatchPack(core.PatchPackOptions{
			PackDir:    "/work",
			Variant:    "legacy",
			DataDir:    "/data",
			FileSystem: fsys,
		})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("missing_pack_root_is_fatal", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		setupDataDir(t, fsys)
		testutil.WriteTree(t, fsys, "/work", map[string]string{
			"random.txt": "no pack here",
		})

		_, err := core.PatchPack(core.PatchPackOptions{
			PackDir:    "/work",
			Variant:    "legacy",
			DataDir:    "/data",
			FileSystem: fsys,
		})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrRootNotFound))
	})

	t.Run("missing_assets_dir_is_fatal", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		setupDataDir(t, fsys)
		testutil.WriteTree(t, fsys, "/work/MyPack", map[string]string{
			"pack.mcmeta": `{"pack": {"description": "Foo"}}`,
		})

		_, err := core.PatchPack(core.PatchPackOptions{
			PackDir:    "/work",
			Variant:    "legacy",
			DataDir:    "/data",
			FileSystem: fsys,
		})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrAssetsNotFound))
	})

	t.Run("missing_overrides_and_template_are_warnings", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		testutil.WriteTree(t, fsys, "/data", map[string]string{
			"legacy/delete.json": rulesDoc,
		})
		setupPack(t, fsys)

		result, err := core.PatchPack(core.PatchPackOptions{
			PackDir:    "/work",
			Variant:    "legacy",
			DataDir:    "/data",
			FileSystem: fsys,
		})
		require.NoError(t, err)
		assert.Len(t, result.Diagnostics, 2)
	})
}
