package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/agentsmd/pkg/errors"
	"github.com/arthur-debert/agentsmd/pkg/logging"
)

// EnvPrefix is the prefix for configuration environment variables, e.g.
// AGENTSMD_SOURCE_FILENAME overrides source.filename.
const EnvPrefix = "AGENTSMD_"

// Repository config file names, tried in order.
var rootConfigNames = []string{".agentsmd.toml", "agentsmd.toml"}

// Load assembles the effective configuration for a repository root.
//
// Layers, lowest precedence first: compiled-in defaults, embedded defaults
// file, user config, repository config, environment variables.
func Load(root string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Compiled-in base, then the embedded defaults file on top.
	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load base configuration")
	}
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse embedded defaults")
	}

	// 2. User config, if present.
	if userPath := UserConfigPath(); fileExists(userPath) {
		logger.Debug().Str("path", userPath).Msg("Loading user config")
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse user config %s", userPath)
		}
	}

	// 3. Repository config, if present.
	if rootPath := findRootConfig(root); rootPath != "" {
		logger.Debug().Str("path", rootPath).Msg("Loading repository config")
		if err := k.Load(file.Provider(rootPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse repository config %s", rootPath)
		}
	}

	// 4. Environment variables.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyToPath), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Trace().
		Str("filename", cfg.Source.Filename).
		Str("rulesDir", cfg.Rules.Dir).
		Str("namespace", cfg.Rules.Namespace).
		Msg("Configuration loaded")
	return &cfg, nil
}

// UserConfigPath returns the per-user config file location under the XDG
// config directory.
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "agentsmd", "agentsmd.toml")
}

// envKeyToPath maps AGENTSMD_RULES_DIR to rules.dir.
func envKeyToPath(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

func findRootConfig(root string) string {
	for _, name := range rootConfigNames {
		p := filepath.Join(root, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func defaultMap() map[string]interface{} {
	return map[string]interface{}{
		"source": map[string]interface{}{
			"filename": DefaultFilename,
		},
		"rules": map[string]interface{}{
			"dir":       DefaultRulesDir,
			"namespace": DefaultNamespace,
		},
	}
}
