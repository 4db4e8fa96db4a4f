// Package patch rewrites the two metadata text artifacts of a pack: the
// pack.mcmeta description and the credits file.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tunafish2k/minipatch/pkg/diag"
	mperrors "github.com/tunafish2k/minipatch/pkg/errors"
	"github.com/tunafish2k/minipatch/pkg/logging"
	"github.com/tunafish2k/minipatch/pkg/types"
)

// Description patches the pack.description field of the marker file: the
// first line gains the configured prefix when missing and the second line
// is overwritten with the attribution token.
type Description struct {
	fs          types.FS
	prefix      string
	attribution string
	dryRun      bool
	logger      zerolog.Logger
}

// NewDescription creates a description patcher with the given tokens.
func NewDescription(fsys types.FS, prefix, attribution string, dryRun bool) *Description {
	return &Description{
		fs:          fsys,
		prefix:      prefix,
		attribution: attribution,
		dryRun:      dryRun,
		logger:      logging.GetLogger("patch.description"),
	}
}

// Apply patches the marker file at markerPath. Missing file, invalid JSON
// and a missing pack.description field are non-fatal; the document is only
// rewritten when the description actually changed.
func (d *Description) Apply(markerPath string, diags *diag.Sink) error {
	data, err := d.fs.ReadFile(markerPath)
	if errors.Is(err, fs.ErrNotExist) {
		diags.Report("", "%s does not exist, skipping description patch", markerPath)
		return nil
	}
	if err != nil {
		return mperrors.Wrapf(err, mperrors.ErrFileAccess, "failed to read %s", markerPath)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		diags.Report("", "%s is not a valid JSON file: %v", markerPath, err)
		return nil
	}

	packSection, ok := doc["pack"].(map[string]interface{})
	if !ok {
		diags.Report("", "%s is missing the pack.description field", markerPath)
		return nil
	}
	original, ok := packSection["description"].(string)
	if !ok {
		diags.Report("", "%s is missing the pack.description field", markerPath)
		return nil
	}

	patched := PatchDescription(original, d.prefix, d.attribution)
	if patched == original {
		d.logger.Debug().Str("path", markerPath).Msg("Description already patched")
		return nil
	}

	if d.dryRun {
		d.logger.Info().Str("path", markerPath).Msg("Would patch description")
		return nil
	}

	packSection["description"] = patched

	out, err := marshalIndented(doc)
	if err != nil {
		return mperrors.Wrapf(err, mperrors.ErrInternal, "failed to encode %s", markerPath)
	}
	if err := d.fs.WriteFile(markerPath, out, 0644); err != nil {
		return mperrors.Wrapf(err, mperrors.ErrFileWrite, "failed to write %s", markerPath)
	}

	d.logger.Info().Str("path", markerPath).Msg("Description patched")
	return nil
}

// PatchDescription applies the line edits to a raw description string:
// the prefix is prepended to the first line when absent and the second
// line is forced to the attribution token, appended when the description
// has fewer than two lines.
func PatchDescription(desc, prefix, attribution string) string {
	lines := strings.Split(desc, "\n")

	if !strings.HasPrefix(lines[0], prefix) {
		lines[0] = prefix + lines[0]
	}

	if len(lines) >= 2 {
		lines[1] = attribution
	} else {
		lines = append(lines, attribution)
	}

	return strings.Join(lines, "\n")
}

// marshalIndented encodes with two-space indentation and without HTML
// escaping so section sign color codes survive the round trip readably.
func marshalIndented(doc map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
