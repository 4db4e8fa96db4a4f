package patch

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tunafish2k/minipatch/pkg/diag"
	mperrors "github.com/tunafish2k/minipatch/pkg/errors"
	"github.com/tunafish2k/minipatch/pkg/logging"
	"github.com/tunafish2k/minipatch/pkg/types"
)

// Credits appends the attribution signature from a template file to the
// pack's credits file, once.
type Credits struct {
	fs     types.FS
	dryRun bool
	logger zerolog.Logger
}

// NewCredits creates a credits patcher.
func NewCredits(fsys types.FS, dryRun bool) *Credits {
	return &Credits{
		fs:     fsys,
		dryRun: dryRun,
		logger: logging.GetLogger("patch.credits"),
	}
}

// Apply reads the signature from templatePath and splices it into
// creditsPath. A missing template is a non-fatal skip; a credits file
// already containing the signature is left untouched.
func (c *Credits) Apply(templatePath, creditsPath string, diags *diag.Sink) error {
	template, err := c.fs.ReadFile(templatePath)
	if errors.Is(err, fs.ErrNotExist) {
		diags.Report("", "credits template not found at %s, skipping", templatePath)
		return nil
	}
	if err != nil {
		return mperrors.Wrapf(err, mperrors.ErrFileAccess, "failed to read %s", templatePath)
	}

	signature := strings.TrimSpace(string(template))

	existing, err := c.fs.ReadFile(creditsPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c.write(creditsPath, signature+"\n")

	case err != nil:
		return mperrors.Wrapf(err, mperrors.ErrFileAccess, "failed to read %s", creditsPath)

	default:
		content := string(existing)
		if strings.Contains(content, signature) {
			c.logger.Debug().Str("path", creditsPath).Msg("Signature already present")
			return nil
		}
		return c.write(creditsPath, strings.TrimRight(content, " \t\r\n")+"\n\n"+signature+"\n")
	}
}

func (c *Credits) write(creditsPath, content string) error {
	if c.dryRun {
		c.logger.Info().Str("path", creditsPath).Msg("Would patch credits")
		return nil
	}
	if err := c.fs.WriteFile(creditsPath, []byte(content), 0644); err != nil {
		return mperrors.Wrapf(err, mperrors.ErrFileWrite, "failed to write %s", creditsPath)
	}
	c.logger.Info().Str("path", creditsPath).Msg("Credits patched")
	return nil
}
