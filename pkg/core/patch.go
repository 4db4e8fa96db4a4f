// Package core wires the patch pipeline together: locate the pack root,
// evaluate the pruning rules, apply overrides and patch the metadata
// artifacts.
package core

import (
	"path/filepath"

	"github.com/tunafish2k/minipatch/pkg/config"
	"github.com/tunafish2k/minipatch/pkg/diag"
	"github.com/tunafish2k/minipatch/pkg/filesystem"
	"github.com/tunafish2k/minipatch/pkg/logging"
	"github.com/tunafish2k/minipatch/pkg/overlay"
	"github.com/tunafish2k/minipatch/pkg/pack"
	"github.com/tunafish2k/minipatch/pkg/patch"
	"github.com/tunafish2k/minipatch/pkg/paths"
	"github.com/tunafish2k/minipatch/pkg/rules"
	"github.com/tunafish2k/minipatch/pkg/types"
)

// PatchPackOptions configures a patch run.
type PatchPackOptions struct {
	// PackDir is the directory to patch; the pack root is located inside it.
	PackDir string

	// Variant selects the rules/overrides variant (legacy or modern).
	Variant string

	// DataDir overrides the patch data directory. Empty means the
	// environment or XDG default.
	DataDir string

	// DryRun logs destructive steps without performing them.
	DryRun bool

	// FileSystem allows substituting the filesystem, primarily for tests.
	// Defaults to the OS filesystem.
	FileSystem types.FS
}

// PatchPackResult reports what a run did.
type PatchPackResult struct {
	PackRoot    string
	Namespaces  int
	FilesCopied int
	Diagnostics []diag.Diagnostic
	DryRun      bool
}

// PatchPack runs the whole pipeline. Fatal-tier conditions return a
// code-tagged error; everything else accumulates in the result's
// diagnostics.
func PatchPack(opts PatchPackOptions) (*PatchPackResult, error) {
	logger := logging.GetLogger("core.patch")

	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	p := paths.New(opts.DataDir)

	settings, err := config.LoadSettings(p.SettingsFile(), nil)
	if err != nil {
		return nil, err
	}

	rulesPath := p.RulesFile(fsys, opts.Variant, settings.Files.Rules)
	ruleSet, err := config.LoadRules(fsys, rulesPath)
	if err != nil {
		return nil, err
	}

	packRoot, err := pack.FindRoot(fsys, opts.PackDir, settings.Files.Marker)
	if err != nil {
		return nil, err
	}

	assetsDir, err := pack.AssetsDir(fsys, packRoot)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("packRoot", packRoot).
		Str("variant", opts.Variant).
		Bool("dryRun", opts.DryRun).
		Int("namespaces", len(ruleSet)).
		Msg("Starting patch run")

	diags := diag.NewSink()

	evaluator := rules.NewEvaluator(fsys, diags, opts.DryRun)
	if err := evaluator.EvaluateSet(assetsDir, ruleSet); err != nil {
		return nil, err
	}

	copier := overlay.NewCopier(fsys, opts.DryRun)
	copied, err := copier.Apply(p.OverridesDir(opts.Variant), packRoot, diags)
	if err != nil {
		return nil, err
	}

	descPatcher := patch.NewDescription(fsys, settings.Description.Prefix, settings.Description.Attribution, opts.DryRun)
	if err := descPatcher.Apply(filepath.Join(packRoot, settings.Files.Marker), diags); err != nil {
		return nil, err
	}

	creditsPatcher := patch.NewCredits(fsys, opts.DryRun)
	creditsTemplate := p.CreditsTemplate(settings.Files.Credits)
	creditsTarget := filepath.Join(packRoot, settings.Files.Credits)
	if err := creditsPatcher.Apply(creditsTemplate, creditsTarget, diags); err != nil {
		return nil, err
	}

	logger.Info().
		Int("diagnostics", diags.Len()).
		Int("filesCopied", copied).
		Msg("Patch run finished")

	return &PatchPackResult{
		PackRoot:    packRoot,
		Namespaces:  len(ruleSet),
		FilesCopied: copied,
		Diagnostics: diags.Entries(),
		DryRun:      opts.DryRun,
	}, nil
}
