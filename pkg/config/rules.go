package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tunafish2k/minipatch/pkg/errors"
	"github.com/tunafish2k/minipatch/pkg/logging"
	"github.com/tunafish2k/minipatch/pkg/types"
)

// AssetsKey is the required top-level key of the rules document.
const AssetsKey = "assets"

// LoadRules reads a rules document and converts it into a RuleSet. The
// document is JSON by default; a .yaml or .yml extension selects YAML.
// A missing or unreadable file and a missing assets key are fatal; shape
// errors below assets are carried as Invalid rules so the evaluator can
// report them in path context and keep going.
func LoadRules(fsys types.FS, path string) (types.RuleSet, error) {
	logger := logging.GetLogger("config.rules")

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read rules file %s", path)
	}

	var doc map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "rules file %s is not valid YAML", path)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "rules file %s is not valid JSON", path)
		}
	}

	rawAssets, ok := doc[AssetsKey]
	if !ok {
		return nil, errors.Newf(errors.ErrConfigInvalid, "rules file %s is missing the %q key", path, AssetsKey)
	}

	assets, ok := asMapping(rawAssets)
	if !ok {
		return nil, errors.Newf(errors.ErrConfigInvalid, "%q must be an object in %s", AssetsKey, path)
	}

	ruleSet := make(types.RuleSet, len(assets))
	for namespace, raw := range assets {
		ruleSet[namespace] = convertRule(raw)
	}

	logger.Debug().
		Str("path", path).
		Int("namespaces", len(ruleSet)).
		Msg("Rules loaded")

	return ruleSet, nil
}

// convertRule maps an untyped document value onto the Rule tagged union.
// Shapes that cannot be interpreted become Invalid rules rather than
// errors, matching the continue-with-siblings failure policy.
func convertRule(raw interface{}) types.Rule {
	switch v := raw.(type) {
	case string:
		switch types.Action(v) {
		case types.ActionDelete, types.ActionPreserve:
			return types.Leaf{Action: types.Action(v)}
		default:
			return types.Invalid{Reason: fmt.Sprintf("unknown rule action %q", v)}
		}

	case map[string]interface{}:
		children := make(map[string]types.Rule, len(v))
		for name, sub := range v {
			children[name] = convertRule(sub)
		}
		return types.Group{Children: children}

	case []interface{}:
		return convertFilter(v)

	default:
		return types.Invalid{Reason: fmt.Sprintf("unsupported rule shape %T", raw)}
	}
}

func convertFilter(list []interface{}) types.Rule {
	if len(list) != 2 {
		return types.Invalid{Reason: fmt.Sprintf("filter rule must have exactly 2 elements, got %d", len(list))}
	}

	rawMode, ok := list[0].(string)
	if !ok {
		return types.Invalid{Reason: "filter mode must be a string"}
	}
	mode := types.Mode(rawMode)
	if mode != types.ModePreserve && mode != types.ModeDelete {
		return types.Invalid{Reason: fmt.Sprintf("unknown filter mode %q", rawMode)}
	}

	rawDecls, ok := asMapping(list[1])
	if !ok {
		return types.Invalid{Reason: "filter declarations must be an object"}
	}

	decls := make(map[string]types.Rule, len(rawDecls))
	for name, sub := range rawDecls {
		decls[name] = convertRule(sub)
	}
	return types.Filter{Mode: mode, Declarations: decls}
}

// asMapping normalizes the mapping types the JSON and YAML decoders
// produce into a map with string keys.
func asMapping(raw interface{}) (map[string]interface{}, bool) {
	switch v := raw.(type) {
	case map[string]interface{}:
		return v, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, val := range v {
			s, ok := key.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	default:
		return nil, false
	}
}
