package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB
	maxFuzzInput = 1 << 16
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
}

var inlineSeeds = []string{
	"",
	"~",
	"- 1\n",
	"- {def: x, value: 1}\n- {set: x, value: 2.5}\n",
	"- {func: f, params: [a, a], body: [a]}\n",
	"- {lambda: [x], body: {do: [{do: [x]}]}}\n",
	"- {class: A, supers: [A], fields: [v]}\n- {def: a, type: A, value: {make: A}}\n",
	"- {op: \"+\", args: [1, \"s\", true]}\n",
	"- &a {def: x, value: 1}\n- *a\n",
	"- {if: 1, then: [], else: {cond: []}}\n",
	"- {get: x, access: [{method: m, args: [{named: k, value: 1}]}]}\n",
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
