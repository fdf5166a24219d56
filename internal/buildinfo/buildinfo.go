// Package buildinfo exposes version metadata injected at link time:
//
//	go build -ldflags "-X github.com/ibrathesheriff/stackrail/internal/buildinfo.Version=1.2.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version     = "N/A"
	BuildDate   = "N/A"
	BuildCommit = "N/A"
)

// String renders the version line shown by `stackrail --version`.
func String() string {
	return fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, BuildCommit)
}

func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "Build commit: %s\n", BuildCommit)
}
