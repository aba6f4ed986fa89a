package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"lumen/internal/ast"
	"lumen/internal/astio"
	"lumen/internal/diag"
	"lumen/internal/observ"
	"lumen/internal/sema"
	"lumen/internal/source"
	"lumen/internal/symbols"
)

// Options configure a check run.
type Options struct {
	// Strings is shared by every file of the run; nil creates one.
	Strings        *source.Interner
	MaxDiagnostics int
	Jobs           int
	Logger         zerolog.Logger

	WarnShadowing          bool
	WarnGlobalRedefinition bool
	// Timings appends a phase timing diagnostic to every result.
	Timings bool
}

// CheckResult is the outcome of checking one input document.
type CheckResult struct {
	Path    string
	FileID  source.FileID
	File    *ast.File
	Bag     *diag.Bag
	Context *symbols.Context
	Sema    *sema.Result
	Timing  *observ.Report
	// Err is set when a broken invariant aborted the semantic pass of this
	// file. The other files of a run are unaffected.
	Err error
}

// semaCheck is replaced in tests to force an aborted pass.
var semaCheck = sema.Check

// CheckFile loads path into fs, decodes it and runs the semantic pass over
// a fresh symbol context. Problems in the input are diagnostics in the
// result; the error is reserved for IO failures and broken invariants.
func CheckFile(ctx context.Context, fs *source.FileSet, path string, opts Options) (*CheckResult, error) {
	if opts.Strings == nil {
		opts.Strings = source.NewInterner()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("driver: load %s: %w", path, err)
	}
	return checkLoaded(fs, id, opts)
}

func checkLoaded(fs *source.FileSet, id source.FileID, opts Options) (res *CheckResult, err error) {
	f := fs.Get(id)
	logger := opts.Logger.With().Str("file", f.Path).Logger()
	timer := observ.NewTimer(f.Path)
	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	res = &CheckResult{Path: f.Path, FileID: id, Bag: bag}

	defer func() {
		bag.Dedup()
		bag.Sort()
		timer.Log(logger)
		if opts.Timings {
			report := timer.Report()
			res.Timing = &report
			appendTimingDiagnostic(bag, id, timer)
		}
	}()

	phase := timer.Begin(observ.PhaseDecode)
	file, loadErr := astio.Load(f, opts.Strings, reporter)
	res.File = file
	switch {
	case loadErr == nil:
		timer.Done(phase, fmt.Sprintf("%d nodes", len(file.Nodes)))
	case errors.Is(loadErr, astio.ErrMalformed):
		timer.Fail(phase, "malformed")
		timer.Skip(observ.PhaseSema, "malformed input")
		logger.Debug().Err(loadErr).Msg("semantic pass skipped")
		return res, nil
	default:
		timer.Fail(phase, "unreadable")
		timer.Skip(observ.PhaseSema, "unreadable input")
		diag.ReportError(reporter, diag.InputMalformed, source.Span{File: id}, loadErr.Error()).Emit()
		return res, nil
	}

	phase = timer.Begin(observ.PhaseSema)
	res.Context = symbols.NewContext(opts.Strings, symbols.WithLogger(logger))
	err = guardScopes(func() {
		res.Sema = semaCheck(file, res.Context, sema.Options{
			Reporter:               reporter,
			Logger:                 logger,
			WarnShadowing:          opts.WarnShadowing,
			WarnGlobalRedefinition: opts.WarnGlobalRedefinition,
		})
	})
	if err != nil {
		timer.Fail(phase, "scope underflow")
		diag.ReportError(reporter, diag.SemaScopeUnderflow, source.Span{File: id}, err.Error()).Emit()
		res.Err = fmt.Errorf("driver: check %s: %w", f.Path, err)
		return res, res.Err
	}
	last, _ := res.Context.ScopeTuple()
	timer.Done(phase, fmt.Sprintf("%d scopes", last))
	return res, nil
}

// guardScopes runs fn and turns a scope underflow panic into an error.
func guardScopes(fn func()) (err error) {
	defer symbols.CatchScopeUnderflow(&err)
	fn()
	return nil
}

// appendTimingDiagnostic adds the timings as an info diagnostic, growing
// the bag past its limit if it is already full.
func appendTimingDiagnostic(bag *diag.Bag, id source.FileID, timer *observ.Timer) {
	data, err := json.Marshal(timer.Report())
	if err != nil {
		return
	}
	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  "timings: " + timer.Summary(),
		Primary:  source.Span{File: id},
		Notes:    []diag.Note{{Msg: string(data)}},
	}
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(0)
	overflow.Add(entry)
	bag.Merge(overflow)
}
