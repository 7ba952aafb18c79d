// Package settings resolves the options of an archx run.
//
// Values are layered with koanf, later layers overriding earlier ones:
//
//  1. built-in defaults
//  2. the settings file ($XDG_CONFIG_HOME/archx/settings.toml or --settings)
//  3. ARCHX_* environment variables (ARCHX_DRY_RUN, ARCHX_SYMLINK__CONFLICT)
//  4. command line flags that were explicitly set
package settings

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/archx/pkg/backends/symlink"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read as a setting.
// A double underscore separates nested keys.
const EnvPrefix = "ARCHX_"

// Setting keys
const (
	KeyDryRun          = "dry_run"
	KeyNonInteractive  = "non_interactive"
	KeySymlinkConflict = "symlink.conflict"
	KeyDecisionsPath   = "decisions.path"
	KeyStopOnError     = "stop_on_error"
	KeySudo            = "sudo"
	KeyPluginsDisabled = "plugins.disabled"
	KeyJUnitPath       = "report.junit"
)

// Options is the resolved, read-only configuration of a run
type Options struct {
	DryRun          bool
	NonInteractive  bool
	SymlinkConflict symlink.Mode
	DecisionsPath   string
	StopOnError     bool
	Sudo            bool
	DisabledPlugins []string
	JUnitPath       string
}

type rawOptions struct {
	DryRun         bool `koanf:"dry_run"`
	NonInteractive bool `koanf:"non_interactive"`
	StopOnError    bool `koanf:"stop_on_error"`
	Sudo           bool `koanf:"sudo"`
	Symlink        struct {
		Conflict string `koanf:"conflict"`
	} `koanf:"symlink"`
	Decisions struct {
		Path string `koanf:"path"`
	} `koanf:"decisions"`
	Plugins struct {
		Disabled []string `koanf:"disabled"`
	} `koanf:"plugins"`
	Report struct {
		JUnit string `koanf:"junit"`
	} `koanf:"report"`
}

// LoadOptions tells Load where to look
type LoadOptions struct {
	// File is an explicit settings file. It must exist when set; the
	// default location is optional.
	File string
	// Flags holds explicitly set flags keyed by setting key
	Flags map[string]interface{}
	// Terminal reports whether stdin is a terminal. Without one the run
	// is always non-interactive.
	Terminal bool
}

// Defaults returns the built-in setting values
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		KeyDryRun:          false,
		KeyNonInteractive:  false,
		KeySymlinkConflict: string(symlink.ModeAsk),
		KeyDecisionsPath:   paths.DecisionsPath(),
		KeyStopOnError:     false,
		KeySudo:            os.Geteuid() != 0,
		KeyPluginsDisabled: []string{},
		KeyJUnitPath:       "",
	}
}

// Load resolves the run options
func Load(opts LoadOptions) (Options, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return Options{}, errors.Wrap(err, errors.ErrInternal, "failed to load default settings")
	}

	if err := loadFile(k, opts.File); err != nil {
		return Options{}, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Options{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to read settings from environment")
	}

	if len(opts.Flags) > 0 {
		if err := k.Load(confmap.Provider(opts.Flags, "."), nil); err != nil {
			return Options{}, errors.Wrap(err, errors.ErrInternal, "failed to apply flag settings")
		}
	}

	var raw rawOptions
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &raw,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &raw, conf); err != nil {
		return Options{}, errors.Wrap(err, errors.ErrConfigValid, "invalid settings")
	}

	mode, err := symlink.ParseMode(raw.Symlink.Conflict)
	if err != nil {
		return Options{}, err
	}

	return Options{
		DryRun:          raw.DryRun,
		NonInteractive:  raw.NonInteractive || !opts.Terminal,
		SymlinkConflict: mode,
		DecisionsPath:   paths.ExpandHome(raw.Decisions.Path),
		StopOnError:     raw.StopOnError,
		Sudo:            raw.Sudo,
		DisabledPlugins: trimAll(raw.Plugins.Disabled),
		JUnitPath:       paths.ExpandHome(raw.Report.JUnit),
	}, nil
}

func loadFile(k *koanf.Koanf, explicit string) error {
	path := explicit
	if path == "" {
		path = paths.SettingsPath()
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && explicit == "" {
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read settings file %s", path).
			WithDetail("path", path)
	}

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		return errors.Newf(errors.ErrConfigLoad,
			"Unsupported settings format for %s (expected .toml, .yaml, .yml).", path).
			WithDetail("path", path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse settings file %s", path).
			WithDetail("path", path)
	}
	return nil
}

// envKey maps ARCHX_SYMLINK__CONFLICT to symlink.conflict
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
