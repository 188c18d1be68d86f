// Package buildinfo identifies the running build in logs and the window
// title.
package buildinfo

import "runtime/debug"

// Set with -ldflags "-X dial/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = ""
)

// Short returns the release version, else a short commit hash, else "dev".
// The commit falls back to the VCS stamp the go tool embeds.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if c := commit(); c != "" {
		if len(c) > 7 {
			c = c[:7]
		}
		return c
	}
	return "dev"
}

func commit() string {
	if Commit != "" {
		return Commit
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
