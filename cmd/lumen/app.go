package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lumen/internal/driver"
	"lumen/internal/prof"
	"lumen/internal/project"
)

// app holds the settings shared by all subcommands, resolved once from
// lumen.toml and the persistent flags.
type app struct {
	cfg    project.Config
	color  bool
	logger zerolog.Logger
	prof   *prof.Session
}

func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		a.cfg, err = project.Load(configPath)
	} else {
		a.cfg, err = project.Discover(".")
	}
	if err != nil {
		return err
	}

	if flags.Changed("color") {
		if a.cfg.Output.Color, err = flags.GetString("color"); err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if flags.Changed("log-level") {
		if a.cfg.Log.Level, err = flags.GetString("log-level"); err != nil {
			return fmt.Errorf("failed to get log-level flag: %w", err)
		}
	}
	if flags.Changed("max-diagnostics") {
		if a.cfg.Check.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if flags.Changed("jobs") {
		if a.cfg.Check.Jobs, err = flags.GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}

	switch strings.ToLower(a.cfg.Output.Color) {
	case "on":
		a.color = true
	case "off":
		a.color = false
	case "", "auto":
		a.color = isTerminal(cmd.OutOrStdout())
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", a.cfg.Output.Color)
	}

	a.logger, err = newLogger(cmd.ErrOrStderr(), a.cfg.Log.Level, a.color && isTerminal(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	a.logger.Debug().Str("config", a.cfg.Path).Msg("settings resolved")

	var profOpts prof.Options
	if profOpts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if profOpts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if profOpts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if profOpts != (prof.Options{}) {
		if a.prof, err = prof.Start(profOpts, a.logger); err != nil {
			return err
		}
	}
	return nil
}

// close stops the profilers started by setup.
func (a *app) close() error {
	return a.prof.Stop()
}

// driverOptions maps the resolved settings onto a check run.
func (a *app) driverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics:         a.cfg.Check.MaxDiagnostics,
		Jobs:                   a.cfg.Check.Jobs,
		Logger:                 a.logger,
		WarnShadowing:          a.cfg.Check.WarnShadowing,
		WarnGlobalRedefinition: a.cfg.Check.WarnRedefine,
	}
}
