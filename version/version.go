// Package version holds build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitRelease is the release tag (e.g. v0.3.1). Set via -ldflags.
	GitRelease = "dev"
	// GitCommit is the short commit hash. Set via -ldflags.
	GitCommit = "unknown"
	// GitCommitDate is the commit date. Set via -ldflags.
	GitCommitDate = "unknown"
	// GoInfo describes the toolchain and platform of the running binary.
	GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)
