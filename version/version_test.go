package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, buildTime
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = origVersion, origCommit, origBuildTime
	})
}

func TestFromBuildInfo_Defaults(t *testing.T) {
	stamp(t, "dev", "", "")

	info := fromBuildInfo(nil, false)
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease() {
		t.Error("dev should not be a release")
	}
	if info.Short() != "dev" {
		t.Errorf("expected short 'dev', got %q", info.Short())
	}
}

func TestFromBuildInfo_VCSSettings(t *testing.T) {
	stamp(t, "1.2.0", "", "")

	bi := &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abcdef1234567890"},
			{Key: "vcs.time", Value: "2026-01-15T10:30:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	info := fromBuildInfo(bi, true)
	if info.GitCommit != "abcdef1" {
		t.Errorf("expected short commit 'abcdef1', got %q", info.GitCommit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("expected vcs build time, got %q", info.BuildTime)
	}
	if !info.Dirty {
		t.Error("expected dirty build")
	}
	if info.IsRelease() {
		t.Error("dirty build should not be a release")
	}
	if info.Short() != "1.2.0-abcdef1-dirty" {
		t.Errorf("expected '1.2.0-abcdef1-dirty', got %q", info.Short())
	}
}

func TestFromBuildInfo_LdflagsWin(t *testing.T) {
	stamp(t, "1.2.0", "1234567", "2026-02-01T00:00:00Z")

	bi := &debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "ffffffffffff"},
			{Key: "vcs.time", Value: "2020-01-01T00:00:00Z"},
		},
	}

	info := fromBuildInfo(bi, true)
	if info.GitCommit != "1234567" {
		t.Errorf("expected ldflags commit, got %q", info.GitCommit)
	}
	if info.BuildTime != "2026-02-01T00:00:00Z" {
		t.Errorf("expected ldflags build time, got %q", info.BuildTime)
	}
	if !info.IsRelease() {
		t.Error("expected a release build")
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "1.0.0", GitCommit: "abc1234", BuildTime: "2026-01-01T00:00:00Z", GoVersion: "go1.26.0"}
	s := info.String()
	for _, want := range []string{"reducekit 1.0.0-abc1234", "built 2026-01-01T00:00:00Z", "go1.26.0"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}
}

func TestGet(t *testing.T) {
	if Get().Version == "" {
		t.Error("expected a version")
	}
}
