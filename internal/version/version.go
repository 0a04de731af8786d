// Package version reports the build identity of the rhinoterm binary.
package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const defaultModule = "pkt.systems/rhinoterm"

// buildVersion is set via -ldflags "-X pkt.systems/rhinoterm/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running build.
type Info struct {
	Module    string
	Version   string
	Revision  string
	Time      time.Time
	Modified  bool
	GoVersion string
}

// Read collects build information for the running binary.
func Read() Info {
	info, _ := debug.ReadBuildInfo()
	return fromBuildInfo(info)
}

// Current returns the best available version string (without dirty suffix).
func Current() string {
	return Read().Version
}

// Module returns the module path from build info when available.
func Module() string {
	return Read().Module
}

// String renders the build as "<module> <version>", adding the revision when
// the version does not already carry it.
func (i Info) String() string {
	out := i.Module + " " + i.Version
	if i.Revision != "" && !strings.Contains(i.Version, shortRevision(i.Revision)) {
		out += " (" + shortRevision(i.Revision) + ")"
	}
	if i.Modified {
		out += " dirty"
	}
	return out
}

func fromBuildInfo(info *debug.BuildInfo) Info {
	out := Info{
		Module:    defaultModule,
		Version:   "v0.0.0-unknown",
		GoVersion: runtime.Version(),
	}
	if info != nil {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			out.Module = path
		}
		if info.GoVersion != "" {
			out.GoVersion = info.GoVersion
		}
		out.Revision, out.Time, out.Modified = vcsSettings(info)
	}
	switch {
	case strings.TrimSpace(buildVersion) != "":
		out.Version = normalizeVersion(buildVersion)
	case info != nil && strings.TrimSpace(info.Main.Version) != "" && info.Main.Version != "(devel)":
		out.Version = normalizeVersion(info.Main.Version)
	default:
		if v := pseudoVersion(out.Revision, out.Time); v != "" {
			out.Version = v
		}
	}
	return out
}

func normalizeVersion(v string) string {
	return strings.TrimSuffix(strings.TrimSpace(v), "+dirty")
}

func vcsSettings(info *debug.BuildInfo) (revision string, at time.Time, modified bool) {
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			if parsed, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				at = parsed.UTC()
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	return revision, at, modified
}

func pseudoVersion(revision string, at time.Time) string {
	if revision == "" || at.IsZero() {
		return ""
	}
	return "v0.0.0-" + at.Format("20060102150405") + "-" + shortRevision(revision)
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
