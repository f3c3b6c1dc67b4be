package main

import (
	"fmt"
	"runtime"
)

// Build-time variables injected via linker flags (ldflags).
//
// Development builds keep these defaults; release builds run:
//
//	go build -ldflags "-X main.Version=$(git describe --tags) ..." -o gitz
var (
	Version   = "dev"     // Overwritten with git tag (e.g., "v0.3.0")
	Commit    = "unknown" // Overwritten with git commit hash
	BuildDate = "unknown" // Overwritten with build timestamp
)

func versionString() string {
	s := fmt.Sprintf("gitz %s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
	if Commit != "unknown" {
		s += fmt.Sprintf("\n  commit: %s", Commit)
	}
	if BuildDate != "unknown" {
		s += fmt.Sprintf("\n  built:  %s", BuildDate)
	}
	return s
}
