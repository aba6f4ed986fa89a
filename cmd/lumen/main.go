package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lumen/internal/version"
)

// errHasErrors is returned by commands whose input produced error
// diagnostics. It has already been reported, main only sets the exit code.
var errHasErrors = errors.New("errors reported")

func main() {
	root, a := newRootCmd()
	err := root.Execute()
	if stopErr := a.close(); err == nil {
		err = stopErr
	}
	if err != nil {
		if !errors.Is(err, errHasErrors) {
			fmt.Fprintln(os.Stderr, "lumen:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:           "lumen",
		Short:         "Semantic checker for lumen syntax trees",
		Long:          `Lumen resolves names, scopes and types over syntax tree documents and reports diagnostics`,
		Version:       version.Collect().Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.String("log-level", "warn", "log level (trace|debug|info|warn|error|disabled)")
	flags.String("config", "", "path to lumen.toml (default: nearest one above the working directory)")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = no limit)")
	flags.Int("jobs", 0, "max parallel workers (0=auto)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a runtime trace to this file")

	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newSymbolsCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root, a
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
