package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// ConfigName is the file looked up by Find.
const ConfigName = "lumen.toml"

// Config is the content of lumen.toml. Every field is optional; command
// line flags override what is set here.
type Config struct {
	Check  CheckConfig  `toml:"check"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`

	// Path is the file the config was read from, empty for Default().
	Path string `toml:"-"`
}

type CheckConfig struct {
	MaxDiagnostics int  `toml:"max_diagnostics"`
	Jobs           int  `toml:"jobs"`
	WarnShadowing  bool `toml:"warn_shadowing"`
	WarnRedefine   bool `toml:"warn_global_redefinition"`
}

type OutputConfig struct {
	Color  string `toml:"color"`  // auto|on|off
	Format string `toml:"format"` // pretty|json
	Source bool   `toml:"source"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the settings used when no lumen.toml exists.
func Default() Config {
	return Config{
		Check:  CheckConfig{MaxDiagnostics: 100},
		Output: OutputConfig{Color: "auto", Format: "pretty", Source: true},
		Log:    LogConfig{Level: "warn"},
	}
}

// Load reads path on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Check.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [check].max_diagnostics must not be negative", path)
	}
	if cfg.Check.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	if meta.IsDefined("output", "color") {
		switch cfg.Output.Color {
		case "auto", "on", "off":
		default:
			return Config{}, fmt.Errorf("%s: [output].color must be auto, on or off", path)
		}
	}
	if meta.IsDefined("output", "format") {
		switch cfg.Output.Format {
		case "pretty", "json":
		default:
			return Config{}, fmt.Errorf("%s: [output].format must be pretty or json", path)
		}
	}
	if meta.IsDefined("log", "level") {
		if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
			return Config{}, fmt.Errorf("%s: [log].level: %w", path, err)
		}
	}
	cfg.Path = path
	return cfg, nil
}

// Find walks up from startDir to locate lumen.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest lumen.toml above startDir, or Default() when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
