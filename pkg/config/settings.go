package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

//go:embed embedded/defaults.toml
var defaultSettings []byte

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "MINIPATCH_"

// Settings holds the user-tunable knobs of the patch pipeline. Everything
// has a built-in default matching the published MINI pack releases.
type Settings struct {
	Description DescriptionSettings `koanf:"description" toml:"description"`
	Files       FileSettings        `koanf:"files" toml:"files"`
}

// DescriptionSettings configures the pack.mcmeta description patch.
type DescriptionSettings struct {
	// Prefix is forced onto the start of the first description line.
	Prefix string `koanf:"prefix" toml:"prefix"`
	// Attribution overwrites the second description line.
	Attribution string `koanf:"attribution" toml:"attribution"`
}

// FileSettings names the artifacts the tool looks for.
type FileSettings struct {
	// Marker is the metadata file identifying the pack root.
	Marker string `koanf:"marker" toml:"marker"`
	// Credits is the credits file name, both as patch target in the pack
	// and as signature template in the data directory.
	Credits string `koanf:"credits" toml:"credits"`
	// Rules is the rules document base name; .json and .yaml extensions
	// are probed in that order.
	Rules string `koanf:"rules" toml:"rules"`
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// LoadSettings layers settings from, in increasing precedence: embedded
// defaults, the optional settings file at path, MINIPATCH_* environment
// variables, and explicit overrides (from CLI flags).
func LoadSettings(path string, overrides map[string]interface{}) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load built-in defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load settings from %s: %w", path, err)
			}
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &cfg, nil
}

// DefaultSettingsTOML returns the embedded defaults file verbatim, for
// the genconfig command.
func DefaultSettingsTOML() []byte {
	return defaultSettings
}

// MarshalSettings renders the effective settings as TOML, used by
// genconfig to write a settings file reflecting env overrides.
func MarshalSettings(s *Settings) ([]byte, error) {
	return gotoml.Marshal(s)
}
