// Package version holds build metadata, set at link time with
// -ldflags "-X github.com/jackzampolin/ballotmaker/version.GitRelease=...".
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitRelease is the release tag the binary was built from.
	GitRelease = "dev"

	// GitCommit is the commit hash the binary was built from.
	GitCommit = "unknown"

	// GitCommitDate is the commit date of GitCommit.
	GitCommitDate = "unknown"

	// GoInfo describes the Go toolchain and platform.
	GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)
