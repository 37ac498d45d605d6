package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"

	gfverrors "github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix prefixes environment overrides (GFV_AI_API_KEY -> ai.api_key).
const EnvPrefix = "GFV_"

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

type loadOptions struct {
	env bool
}

// LoadOption tunes Load.
type LoadOption func(*loadOptions)

// WithEnvOverrides layers GFV_AI_* and GFV_SYNC_* variables on top of the
// file. Configurations loaded this way should not be saved back.
func WithEnvOverrides() LoadOption {
	return func(o *loadOptions) { o.env = true }
}

// Load reads the configuration at path from fs. A missing file yields the
// defaults; a malformed one is a parse error.
func Load(fs afero.Fs, path string, opts ...LoadOption) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.GetLogger("config")

	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, gfverrors.Wrap(err, gfverrors.ErrInternal, "failed to load built-in defaults")
	}

	data, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if err := k.Load(&rawBytesProvider{bytes: data}, toml.Parser()); err != nil {
			return nil, gfverrors.Wrapf(err, gfverrors.ErrParse, "failed to parse config %s", path)
		}
		logger.Debug().Str("path", path).Msg("Config file loaded")
	case os.IsNotExist(err):
		logger.Debug().Str("path", path).Msg("No config file, using defaults")
	default:
		return nil, gfverrors.Wrapf(err, gfverrors.ErrIO, "failed to read config %s", path)
	}

	if o.env {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, gfverrors.Wrap(err, gfverrors.ErrParse, "failed to load environment overrides")
		}
	}

	return unmarshal(k)
}

// envKey maps GFV_SECTION_NAME to section.name for the ai and sync
// sections. Everything else under the prefix is ignored.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, name, ok := strings.Cut(key, "_")
	if !ok || name == "" {
		return ""
	}
	switch section {
	case "ai", "sync":
		return section + "." + name
	}
	return ""
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, gfverrors.Wrap(err, gfverrors.ErrParse, "failed to decode configuration")
	}
	cfg.normalize()
	return &cfg, nil
}

// FromMap builds a Config from flat dotted keys over the defaults. Used by
// tests and by callers that assemble configuration in memory.
func FromMap(values map[string]interface{}) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, gfverrors.Wrap(err, gfverrors.ErrInternal, "failed to load built-in defaults")
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, gfverrors.Wrap(err, gfverrors.ErrParse, "failed to load values")
	}
	return unmarshal(k)
}
