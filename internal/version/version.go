package version

import (
	"fmt"
	"runtime"
)

// Build metadata, overridden with -ldflags "-X".
var (
	Version   = "dev"
	GitSHA    = "unknown"
	BuildTime = "unknown"
)

// Info returns a one-line build description.
func Info() string {
	return fmt.Sprintf("terrainseg %s (%s, built %s, %s %s/%s)",
		Version, GitSHA, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
