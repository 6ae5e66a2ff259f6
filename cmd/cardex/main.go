package main

import (
	"runtime"

	"github.com/bnema/cardex/internal/cli/cmd"
	"github.com/bnema/cardex/internal/domain/build"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})

	// Default: interactive browser (see rootCmd.RunE)
	cmd.Execute()
}
