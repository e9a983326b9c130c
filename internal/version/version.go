// Package version reports how the binary was built. Release builds set the
// variables with -ldflags "-X histongram/internal/version.Version=v1.2.0";
// other builds fall back to the VCS stamp the go command embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information of the running binary.
func Get() BuildInfo {
	var settings []debug.BuildSetting
	if bi, ok := debug.ReadBuildInfo(); ok {
		settings = bi.Settings
	}
	return fromSettings(settings)
}

// fromSettings prefers the ldflags variables and fills the gaps from the
// embedded VCS settings.
func fromSettings(settings []debug.BuildSetting) BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Short is the version with the abbreviated commit, e.g. "v1.2.0 (0123456)".
func (b BuildInfo) Short() string {
	v := b.Version
	if b.Modified {
		v += "-dirty"
	}
	if c := b.shortCommit(); c != "" {
		v += " (" + c + ")"
	}
	return v
}

func (b BuildInfo) shortCommit() string {
	if len(b.Commit) > 7 {
		return b.Commit[:7]
	}
	return b.Commit
}

// String renders one line for the version command.
func (b BuildInfo) String() string {
	s := "histongram " + b.Short()
	if b.Date != "" {
		s += " built " + b.Date
	}
	return s + fmt.Sprintf(" with %s", b.GoVersion)
}
