// Package overlay applies the overrides directory onto a pack root after
// pruning completes. Only regular files are copied; directory structure is
// recreated from their relative paths.
package overlay

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tunafish2k/minipatch/pkg/diag"
	mperrors "github.com/tunafish2k/minipatch/pkg/errors"
	"github.com/tunafish2k/minipatch/pkg/logging"
	"github.com/tunafish2k/minipatch/pkg/types"
)

// Copier overlays files from an overrides tree onto a target directory,
// overwriting existing files and carrying over source mtimes.
type Copier struct {
	fs     types.FS
	dryRun bool
	logger zerolog.Logger
}

// NewCopier creates a copier over the given filesystem.
func NewCopier(fsys types.FS, dryRun bool) *Copier {
	return &Copier{
		fs:     fsys,
		dryRun: dryRun,
		logger: logging.GetLogger("overlay.copier"),
	}
}

// Apply copies every regular file under overridesDir to the same relative
// path under targetDir. A missing or non-directory overrides path is a
// non-fatal skip. Returns the number of files copied.
func (c *Copier) Apply(overridesDir, targetDir string, diags *diag.Sink) (int, error) {
	info, err := c.fs.Stat(overridesDir)
	if errors.Is(err, fs.ErrNotExist) {
		diags.Report("", "overrides directory does not exist, skipping override step")
		return 0, nil
	}
	if err != nil {
		return 0, mperrors.Wrapf(err, mperrors.ErrFileAccess, "failed to stat %s", overridesDir)
	}
	if !info.IsDir() {
		diags.Report("", "overrides is not a directory, skipping override step")
		return 0, nil
	}

	copied, err := c.copyDir(overridesDir, targetDir, "")
	if err != nil {
		return copied, err
	}

	c.logger.Info().
		Int("files", copied).
		Str("from", overridesDir).
		Str("to", targetDir).
		Msg("Overrides applied")
	return copied, nil
}

func (c *Copier) copyDir(overridesDir, targetDir, rel string) (int, error) {
	entries, err := c.fs.ReadDir(filepath.Join(overridesDir, rel))
	if err != nil {
		return 0, mperrors.Wrapf(err, mperrors.ErrFileAccess, "failed to list %s", filepath.Join(overridesDir, rel))
	}

	copied := 0
	for _, entry := range entries {
		entryRel := filepath.Join(rel, entry.Name())

		if entry.IsDir() {
			n, err := c.copyDir(overridesDir, targetDir, entryRel)
			if err != nil {
				return copied, err
			}
			copied += n
			continue
		}

		// Symlinks and other non-regular entries are not copied as leaves
		if !entry.Type().IsRegular() {
			continue
		}

		if err := c.copyFile(filepath.Join(overridesDir, entryRel), filepath.Join(targetDir, entryRel)); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

// copyFile copies a single file, creating parent directories and
// preserving the source's mode and modification time.
func (c *Copier) copyFile(src, dst string) error {
	info, err := c.fs.Stat(src)
	if err != nil {
		return mperrors.Wrapf(err, mperrors.ErrFileAccess, "failed to stat %s", src)
	}

	if c.dryRun {
		c.logger.Info().Str("from", src).Str("to", dst).Msg("Would copy")
		return nil
	}

	data, err := c.fs.ReadFile(src)
	if err != nil {
		return mperrors.Wrapf(err, mperrors.ErrFileAccess, "failed to read %s", src)
	}

	if err := c.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return mperrors.Wrapf(err, mperrors.ErrDirCreate, "failed to create %s", filepath.Dir(dst))
	}

	if err := c.fs.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return mperrors.Wrapf(err, mperrors.ErrFileWrite, "failed to write %s", dst)
	}

	if err := c.fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		// Not every platform supports this, the copy itself stands
		c.logger.Debug().Err(err).Str("path", dst).Msg("Failed to preserve mtime")
	}

	c.logger.Debug().Str("from", src).Str("to", dst).Msg("Copied")
	return nil
}
