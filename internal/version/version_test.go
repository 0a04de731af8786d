package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"
)

func TestCurrentPrefersBuildVersion(t *testing.T) {
	old := buildVersion
	buildVersion = "v1.2.3+dirty"
	t.Cleanup(func() { buildVersion = old })

	if got := Current(); got != "v1.2.3" {
		t.Fatalf("expected build version, got %q", got)
	}
}

func TestFromBuildInfoPseudoVersion(t *testing.T) {
	ts := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "pkt.systems/rhinoterm", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "1234567890abcdef"},
			{Key: "vcs.time", Value: ts.Format(time.RFC3339)},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	got := fromBuildInfo(info)
	if got.Version != "v0.0.0-20250102030405-1234567890ab" {
		t.Fatalf("unexpected pseudo version %q", got.Version)
	}
	if !got.Modified || !got.Time.Equal(ts) {
		t.Fatalf("unexpected vcs fields: %+v", got)
	}
	if s := got.String(); s != "pkt.systems/rhinoterm v0.0.0-20250102030405-1234567890ab dirty" {
		t.Fatalf("unexpected string %q", s)
	}
}

func TestFromBuildInfoTaggedVersion(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "example.com/fork", Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abcdef0123456789"},
		},
	}
	got := fromBuildInfo(info)
	if got.Module != "example.com/fork" || got.Version != "v0.4.0" {
		t.Fatalf("unexpected info: %+v", got)
	}
	if !strings.Contains(got.String(), "(abcdef012345)") {
		t.Fatalf("expected revision in %q", got.String())
	}
}

func TestFromBuildInfoNil(t *testing.T) {
	got := fromBuildInfo(nil)
	if got.Module != defaultModule || got.Version != "v0.0.0-unknown" {
		t.Fatalf("unexpected fallback info: %+v", got)
	}
}
