package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lumen/internal/diagfmt"
	"lumen/internal/driver"
	"lumen/internal/source"
	"lumen/internal/symbols"
)

func newSymbolsCmd(a *app) *cobra.Command {
	var scopes []uint
	cmd := &cobra.Command{
		Use:   "symbols [flags] <file.yaml>",
		Short: "Print the symbol tables built for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := source.NewFileSet()
			res, err := driver.CheckFile(cmd.Context(), fs, args[0], a.driverOptions())
			if err != nil {
				return err
			}
			if res.Bag.Len() > 0 {
				diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, fs, diagfmt.PrettyOpts{
					Color:     a.color && isTerminal(cmd.ErrOrStderr()),
					ShowNotes: true,
				})
			}
			if res.Context == nil {
				return fmt.Errorf("%s: no symbol tables, the document is malformed", args[0])
			}
			opts := diagfmt.TableOpts{Color: a.color}
			for _, s := range scopes {
				opts.Scopes = append(opts.Scopes, symbols.ScopeID(s))
			}
			diagfmt.SymbolTable(cmd.OutOrStdout(), res.Context.Tables(), res.Context.Strings(), opts)
			if res.Bag.HasErrors() {
				return errHasErrors
			}
			return nil
		},
	}
	cmd.Flags().UintSliceVar(&scopes, "scope", nil, "only print these scopes (repeatable)")
	return cmd
}
