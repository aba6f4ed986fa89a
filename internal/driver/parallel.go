package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"lumen/internal/source"
)

// inputExts are the extensions picked up when a directory is given.
var inputExts = []string{".yaml", ".yml"}

// ListInputs expands directories in paths into the syntax tree documents
// below them. Explicit file paths are kept as given. The result is sorted
// and free of duplicates.
func ListInputs(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("driver: %w", err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && slices.Contains(inputExts, strings.ToLower(filepath.Ext(path))) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("driver: walk %s: %w", p, err)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// CheckFiles checks every path concurrently, at most opts.Jobs at a time
// (GOMAXPROCS when zero). All files share one FileSet and one interner;
// each gets its own symbol context. Results keep the order of paths. The
// first IO error cancels the remaining work; a file whose semantic pass
// was aborted keeps the error in its CheckResult and the run goes on.
func CheckFiles(ctx context.Context, paths []string, opts Options) (*source.FileSet, []CheckResult, error) {
	fileSet := source.NewFileSet()
	if len(paths) == 0 {
		return fileSet, nil, nil
	}
	if opts.Strings == nil {
		opts.Strings = source.NewInterner()
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// every goroutine writes its own index
	results := make([]CheckResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			res, err := CheckFile(gctx, fileSet, path, opts)
			if res == nil {
				return err
			}
			results[i] = *res
			if res.Err != nil {
				opts.Logger.Warn().Err(res.Err).Msg("semantic pass aborted")
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	opts.Logger.Debug().Int("files", len(paths)).Int("jobs", jobs).Msg("check finished")
	return fileSet, results, nil
}
