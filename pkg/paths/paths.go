// Package paths provides centralized path handling for minipatch. The
// patch data directory holds the per-variant rules documents and overrides
// trees plus the shared credits template and settings file.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/tunafish2k/minipatch/pkg/types"
)

// Environment variable names
const (
	// EnvDataDir overrides the patch data directory location
	EnvDataDir = "MINIPATCH_DATA_DIR"
)

// Default directories and files
const (
	// AppDirName is the directory name used under XDG base directories
	AppDirName = "minipatch"

	// OverridesDirName is the per-variant overlay directory
	OverridesDirName = "overrides"

	// SettingsFileName is the optional tool settings file
	SettingsFileName = "settings.toml"

	// VariantLegacy and VariantModern are the supported pack variants
	VariantLegacy = "legacy"
	VariantModern = "modern"
)

// Paths resolves locations inside the patch data directory.
type Paths struct {
	dataDir string
}

// New creates a Paths rooted at, in order of precedence: the explicit
// dataDir argument, $MINIPATCH_DATA_DIR, or the XDG config directory.
func New(dataDir string) *Paths {
	if dataDir == "" {
		dataDir = os.Getenv(EnvDataDir)
	}
	if dataDir == "" {
		dataDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}
	return &Paths{dataDir: dataDir}
}

// DataDir returns the patch data directory.
func (p *Paths) DataDir() string {
	return p.dataDir
}

// VariantDir returns the directory holding one variant's rules and
// overrides.
func (p *Paths) VariantDir(variant string) string {
	return filepath.Join(p.dataDir, variant)
}

// RulesFile probes for the variant's rules document: <base>.json first,
// then <base>.yaml and <base>.yml. When none exists the .json path is
// returned so the loader reports a conventional location.
func (p *Paths) RulesFile(fsys types.FS, variant, base string) string {
	dir := p.VariantDir(variant)
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		candidate := filepath.Join(dir, base+ext)
		if _, err := fsys.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(dir, base+".json")
}

// OverridesDir returns the variant's overlay directory.
func (p *Paths) OverridesDir(variant string) string {
	return filepath.Join(p.VariantDir(variant), OverridesDirName)
}

// CreditsTemplate returns the shared credits signature template path. It
// sits next to the variant directories, not inside them.
func (p *Paths) CreditsTemplate(name string) string {
	return filepath.Join(p.dataDir, name)
}

// SettingsFile returns the optional settings file path.
func (p *Paths) SettingsFile() string {
	return filepath.Join(p.dataDir, SettingsFileName)
}

// ValidVariant reports whether variant names a supported pack variant.
func ValidVariant(variant string) bool {
	return variant == VariantLegacy || variant == VariantModern
}
