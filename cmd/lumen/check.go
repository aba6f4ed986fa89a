package main

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lumen/internal/diagfmt"
	"lumen/internal/driver"
	"lumen/internal/source"
)

type checkFlags struct {
	format       string
	snapshotDir  string
	warnShadow   bool
	warnRedefine bool
	timings      bool
	withNotes    bool
	noSource     bool
	fullPath     bool
}

func newCheckCmd(a *app) *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "check [flags] <file.yaml|directory>...",
		Short: "Check syntax tree documents and report diagnostics",
		Long:  `Check resolves every name, scope and type annotation of the given documents, or of all *.yaml files within a directory`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, a, f, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "", "output format (pretty|json); default from lumen.toml")
	flags.StringVar(&f.snapshotDir, "snapshot", "", "write the symbol tables of every checked file into this directory")
	flags.BoolVar(&f.warnShadow, "warn-shadow", false, "warn when a block binding hides an outer one")
	flags.BoolVar(&f.warnRedefine, "warn-redefine", false, "warn when a global is redefined")
	flags.BoolVar(&f.timings, "timings", false, "append phase timings to the diagnostics")
	flags.BoolVar(&f.withNotes, "with-notes", true, "include diagnostic notes in output")
	flags.BoolVar(&f.noSource, "no-source", false, "do not echo the offending input line")
	flags.BoolVar(&f.fullPath, "fullpath", false, "emit absolute file paths in output")
	return cmd
}

func runCheck(cmd *cobra.Command, a *app, f checkFlags, args []string) error {
	format := strings.ToLower(f.format)
	if format == "" {
		format = a.cfg.Output.Format
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format %q (must be pretty or json)", format)
	}

	paths, err := driver.ListInputs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .yaml documents found in %s", strings.Join(args, ", "))
	}

	opts := a.driverOptions()
	opts.WarnShadowing = opts.WarnShadowing || f.warnShadow
	opts.WarnGlobalRedefinition = opts.WarnGlobalRedefinition || f.warnRedefine
	opts.Timings = f.timings

	fs, results, err := driver.CheckFiles(cmd.Context(), paths, opts)
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if f.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		prettyOpts := diagfmt.PrettyOpts{
			Color:      a.color,
			PathMode:   pathMode,
			ShowNotes:  f.withNotes,
			ShowSource: a.cfg.Output.Source && !f.noSource,
		}
		for _, r := range results {
			if r.Bag.Len() == 0 {
				continue
			}
			diagfmt.Pretty(out, r.Bag, fs, prettyOpts)
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{PathMode: pathMode, IncludeNotes: f.withNotes}
		if err := writeJSONResults(out, results, fs, jsonOpts); err != nil {
			return err
		}
	}

	if f.snapshotDir != "" {
		if err := writeSnapshots(f.snapshotDir, results, fs); err != nil {
			return err
		}
	}

	for _, r := range results {
		if r.Bag.HasErrors() {
			return errHasErrors
		}
	}
	return nil
}

func writeJSONResults(w io.Writer, results []driver.CheckResult, fs *source.FileSet, opts diagfmt.JSONOpts) error {
	output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
	for _, r := range results {
		output[r.Path] = diagfmt.BuildDiagnosticsOutput(r.Bag, fs, opts)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// writeSnapshots stores one snapshot per file whose semantic pass ran.
func writeSnapshots(dir string, results []driver.CheckResult, fs *source.FileSet) error {
	for i := range results {
		snap := driver.NewSnapshot(&results[i], fs)
		if snap == nil {
			continue
		}
		if err := driver.WriteSnapshot(filepath.Join(dir, snapshotName(results[i].Path)), snap); err != nil {
			return fmt.Errorf("snapshot %s: %w", results[i].Path, err)
		}
	}
	return nil
}

// snapshotName flattens path into a file name. Flattening is lossy
// (a/b_c and a_b/c look the same), so a short hash of the cleaned path
// keeps distinct inputs apart.
func snapshotName(path string) string {
	clean := filepath.ToSlash(filepath.Clean(path))
	sum := sha256.Sum256([]byte(clean))
	flat := strings.TrimSuffix(clean, filepath.Ext(clean))
	flat = strings.TrimLeft(strings.ReplaceAll(flat, "../", ""), "/")
	return fmt.Sprintf("%s-%x.lsnap", strings.ReplaceAll(flat, "/", "_"), sum[:4])
}
