package cmd

import (
	"runtime/debug"
)

// Version can be set via:
// -ldflags="-X 'github.com/toogle/docker-tags/cmd.Version=$TAG'"
var Version string

func init() {
	if Version == "" {
		if i, ok := debug.ReadBuildInfo(); ok {
			Version = i.Main.Version
		}
	}
	// Module builds outside a release report "(devel)" or nothing at all.
	if Version == "" || Version == "(devel)" {
		Version = "dev"
	}
}
