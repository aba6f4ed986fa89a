package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestCollect_TrimsAndDefaults(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	Version = "  "
	GitCommit = " abc123 \n"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Collect()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.GitCommit != "abc123" {
		t.Errorf("GitCommit = %q", info.GitCommit)
	}
	if info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q", info.BuildDate)
	}
}

func TestBanner(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.0.0-rc.1+build.123", "1.0.0-rc.1+build.123"},
		{"dev", "dev"},
	}
	for _, tc := range cases {
		if got := Banner(tc.in, false); got != tc.want {
			t.Errorf("Banner(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	colored := Banner("1.2.3-dev", true)
	if !strings.Contains(colored, "\x1b[") || !strings.HasSuffix(colored, "-dev") {
		t.Errorf("colored banner %q", colored)
	}
}

func BenchmarkCollect(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Collect()
	}
}
