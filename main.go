package main

import (
	"runtime/debug"

	"github.com/eventplus/evp/cmd"
)

// Version is set at build time via -ldflags
var Version = "dev"

func effectiveVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func main() {
	cmd.SetVersion(effectiveVersion())
	cmd.Execute()
}
