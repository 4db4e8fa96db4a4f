// Package pack locates the resource-pack root inside a target directory
// tree and verifies its layout.
package pack

import (
	"errors"
	"io/fs"
	"path/filepath"

	mperrors "github.com/tunafish2k/minipatch/pkg/errors"
	"github.com/tunafish2k/minipatch/pkg/logging"
	"github.com/tunafish2k/minipatch/pkg/types"
)

// AssetsDirName is the directory holding namespaced pack assets.
const AssetsDirName = "assets"

// FindRoot returns the pack root: dir itself when it directly contains the
// marker file, otherwise the first descendant directory containing it in
// depth-first, sorted-name order.
func FindRoot(fsys types.FS, dir, marker string) (string, error) {
	logger := logging.GetLogger("pack.locator")

	info, err := fsys.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", mperrors.Newf(mperrors.ErrInvalidInput, "directory does not exist: %s", dir)
	}
	if err != nil {
		return "", mperrors.Wrapf(err, mperrors.ErrPackAccess, "failed to stat %s", dir)
	}
	if !info.IsDir() {
		return "", mperrors.Newf(mperrors.ErrInvalidInput, "not a directory: %s", dir)
	}

	root, found, err := findMarker(fsys, dir, marker)
	if err != nil {
		return "", err
	}
	if !found {
		return "", mperrors.Newf(mperrors.ErrRootNotFound, "%s not found under %s", marker, dir)
	}

	logger.Debug().Str("root", root).Msg("Pack root located")
	return root, nil
}

// findMarker checks dir itself for the marker before descending into
// subdirectories, so the shallowest, lexically first match wins.
func findMarker(fsys types.FS, dir, marker string) (string, bool, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return "", false, mperrors.Wrapf(err, mperrors.ErrPackAccess, "failed to list %s", dir)
	}

	for _, entry := range entries {
		if !entry.IsDir() && entry.Name() == marker {
			return dir, true, nil
		}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		root, found, err := findMarker(fsys, filepath.Join(dir, entry.Name()), marker)
		if err != nil {
			return "", false, err
		}
		if found {
			return root, true, nil
		}
	}

	return "", false, nil
}

// AssetsDir verifies the assets directory exists under root and returns
// its path.
func AssetsDir(fsys types.FS, root string) (string, error) {
	dir := filepath.Join(root, AssetsDirName)

	info, err := fsys.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", mperrors.Newf(mperrors.ErrAssetsNotFound, "assets directory does not exist: %s", dir)
	}
	if err != nil {
		return "", mperrors.Wrapf(err, mperrors.ErrPackAccess, "failed to stat %s", dir)
	}
	if !info.IsDir() {
		return "", mperrors.Newf(mperrors.ErrAssetsNotFound, "assets is not a directory: %s", dir)
	}

	return dir, nil
}
