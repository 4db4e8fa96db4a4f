// Package rules implements the evaluator for the declarative pruning
// specification. A rule tree is walked top-down against a base directory;
// leaves delete or preserve single entries, groups descend into named
// children, and filters whitelist or blacklist the actual contents of a
// directory.
package rules

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tunafish2k/minipatch/pkg/diag"
	mperrors "github.com/tunafish2k/minipatch/pkg/errors"
	"github.com/tunafish2k/minipatch/pkg/logging"
	"github.com/tunafish2k/minipatch/pkg/types"
)

// Evaluator walks a rule tree and performs deletions under a base
// directory. Malformed rules and missing targets go to the diagnostics
// sink and evaluation continues with siblings; filesystem operations that
// fail outright (permission denial and the like) abort with an error.
type Evaluator struct {
	fs     types.FS
	diags  *diag.Sink
	dryRun bool
	logger zerolog.Logger
}

// NewEvaluator creates an evaluator over the given filesystem. When dryRun
// is set, deletions are logged but not performed.
func NewEvaluator(fsys types.FS, diags *diag.Sink, dryRun bool) *Evaluator {
	return &Evaluator{
		fs:     fsys,
		diags:  diags,
		dryRun: dryRun,
		logger: logging.GetLogger("rules.evaluator"),
	}
}

// EvaluateSet evaluates every namespace of the rule set under basePath,
// in sorted namespace order for reproducible output.
func (e *Evaluator) EvaluateSet(basePath string, set types.RuleSet) error {
	for _, namespace := range sortedKeys(set) {
		if err := e.Evaluate(basePath, namespace, set[namespace]); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate applies a single rule to basePath/relPath, dispatching on the
// rule shape.
func (e *Evaluator) Evaluate(basePath, relPath string, rule types.Rule) error {
	switch r := rule.(type) {
	case types.Leaf:
		return e.applyLeaf(basePath, relPath, r)
	case types.Group:
		return e.applyGroup(basePath, relPath, r)
	case types.Filter:
		return e.applyFilter(basePath, relPath, r)
	case types.Invalid:
		e.diags.Report(relPath, "%s", r.Reason)
		return nil
	default:
		e.diags.Report(relPath, "unhandled rule type %T", rule)
		return nil
	}
}

func (e *Evaluator) applyLeaf(basePath, relPath string, leaf types.Leaf) error {
	if leaf.Action == types.ActionPreserve {
		return nil
	}
	return e.deletePath(basePath, relPath)
}

// applyGroup recurses into named children. The directory itself is never
// deleted, only descended into.
func (e *Evaluator) applyGroup(basePath, relPath string, group types.Group) error {
	for _, name := range sortedKeys(group.Children) {
		if err := e.Evaluate(basePath, joinRel(relPath, name), group.Children[name]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) applyFilter(basePath, relPath string, filter types.Filter) error {
	target := filepath.Join(basePath, filepath.FromSlash(relPath))

	info, err := e.fs.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		e.diags.Report(relPath, "directory does not exist")
		return nil
	}
	if err != nil {
		return mperrors.Wrapf(err, mperrors.ErrFileAccess, "failed to stat %s", target)
	}
	if !info.IsDir() {
		e.diags.Report(relPath, "path is not a directory")
		return nil
	}

	entries, err := e.fs.ReadDir(target)
	if err != nil {
		return mperrors.Wrapf(err, mperrors.ErrFileAccess, "failed to list %s", target)
	}

	switch filter.Mode {
	case types.ModePreserve:
		// Whitelist: undeclared entries are deleted, declared entries
		// are recursed into so they can carry nested pruning rules.
		for _, entry := range entries {
			if _, declared := filter.Declarations[entry.Name()]; declared {
				continue
			}
			if err := e.deletePath(basePath, joinRel(relPath, entry.Name())); err != nil {
				return err
			}
		}
		return e.recurseDeclared(basePath, relPath, filter.Declarations)

	case types.ModeDelete:
		// Blacklist: only declared entries are touched, the rest of the
		// directory is not even inspected. A declared name missing from
		// disk is accepted silently.
		return e.recurseDeclared(basePath, relPath, filter.Declarations)

	default:
		e.diags.Report(relPath, "unknown filter mode %q", filter.Mode)
		return nil
	}
}

func (e *Evaluator) recurseDeclared(basePath, relPath string, decls map[string]types.Rule) error {
	for _, name := range sortedKeys(decls) {
		if err := e.Evaluate(basePath, joinRel(relPath, name), decls[name]); err != nil {
			return err
		}
	}
	return nil
}

// deletePath removes the entry at basePath/relPath, recursively for
// directories. A missing entry is a reported no-op.
func (e *Evaluator) deletePath(basePath, relPath string) error {
	target := filepath.Join(basePath, filepath.FromSlash(relPath))

	info, err := e.fs.Lstat(target)
	if errors.Is(err, fs.ErrNotExist) {
		e.diags.Report(relPath, "path does not exist")
		return nil
	}
	if err != nil {
		return mperrors.Wrapf(err, mperrors.ErrFileAccess, "failed to stat %s", target)
	}

	if e.dryRun {
		e.logger.Info().
			Str("path", relPath).
			Bool("isDir", info.IsDir()).
			Msg("Would delete")
		return nil
	}

	if info.IsDir() {
		err = e.fs.RemoveAll(target)
	} else {
		err = e.fs.Remove(target)
	}
	if err != nil {
		return mperrors.Wrapf(err, mperrors.ErrFileAccess, "failed to delete %s", target)
	}

	e.logger.Debug().
		Str("path", relPath).
		Bool("isDir", info.IsDir()).
		Msg("Deleted")
	return nil
}

// joinRel builds the relative path context, empty at the root call.
func joinRel(relPath, name string) string {
	if relPath == "" {
		return name
	}
	return relPath + "/" + name
}

func sortedKeys(m map[string]types.Rule) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
