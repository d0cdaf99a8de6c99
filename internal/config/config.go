// Package config loads castmirror's policy configuration from TOML,
// JSON, YAML or a Nix expression (evaluated via nix-instantiate), and
// resolves ambient runtime settings (backend binary paths, dispatch
// concurrency) from the environment.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/hbomb79/castmirror/internal/policy"
)

// FileConfig is the decoded shape of a policy configuration file, per the
// schema in spec.md §6.
type FileConfig struct {
	policy.RawPolicy `mapstructure:",squash"`
	Dryrun           bool `mapstructure:"dryrun"`
}

// EnvConfig holds ambient settings this implementation needs beyond what
// spec.md's schema defines (the backend binary locations and dispatch
// concurrency), resolved from the environment with cleanenv the way
// the teacher resolves its own service configuration.
type EnvConfig struct {
	FfmpegBinPath  string `env:"CASTMIRROR_FFMPEG_BIN" env-default:"ffmpeg"`
	FfprobeBinPath string `env:"CASTMIRROR_FFPROBE_BIN" env-default:"ffprobe"`
	Concurrency    int    `env:"CASTMIRROR_CONCURRENCY" env-default:"0"`
}

// LoadEnv resolves EnvConfig from the process environment.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("reading environment config: %w", err)
	}
	return cfg, nil
}

// Load reads and decodes the policy config file at path, dispatching on
// its extension. Both underscore and hyphen key spellings in the schema
// (`supported_formats`/`supported-formats`, `required`/`requirements`,
// ...) are accepted: raw keys are canonicalised before being decoded into
// FileConfig.
func Load(ctx context.Context, path string) (*FileConfig, error) {
	raw, err := readRaw(ctx, path)
	if err != nil {
		return nil, err
	}

	var cfg FileConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("building config decoder: %w", err)
	}

	if err := decoder.Decode(normalizeKeys(raw)); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}

	return &cfg, nil
}

func readRaw(ctx context.Context, path string) (map[string]interface{}, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".nix" {
		return evalNix(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	raw := map[string]interface{}{}
	switch ext {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("config %s has unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return raw, nil
}

// normalizeKeys canonicalises the schema's accepted key aliases
// (underscore spellings, and `requirements` for `required`) to the
// spelling FileConfig's mapstructure tags expect. Only top-level keys are
// rewritten; nested maps such as requirement entries are passed through
// unchanged.
func normalizeKeys(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		nk := strings.ReplaceAll(k, "_", "-")
		if nk == "requirements" {
			nk = "required"
		}
		out[nk] = v
	}
	return out
}
