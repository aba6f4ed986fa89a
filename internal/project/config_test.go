package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[check]
jobs = 4
warn_shadowing = true

[output]
format = "json"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.Check.Jobs = 4
	want.Check.WarnShadowing = true
	want.Output.Format = "json"
	want.Log.Level = "debug"
	want.Path = path
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"color":    "[output]\ncolor = \"sometimes\"\n",
		"format":   "[output]\nformat = \"xml\"\n",
		"level":    "[log]\nlevel = \"loud\"\n",
		"jobs":     "[check]\njobs = -1\n",
		"unknown":  "[check]\nspeed = 3\n",
		"not toml": "[check\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), content)
			if _, err := Load(path); err == nil || !strings.Contains(err.Error(), path) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: %v %v", ok, err)
	}
	want, _ := filepath.Abs(path)
	if got != want {
		t.Fatalf("Find = %q, want %q", got, want)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != want || cfg.Check.MaxDiagnostics != 100 {
		t.Fatalf("cfg %+v", cfg)
	}
}
