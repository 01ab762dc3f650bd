package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is set at build time with -ldflags "-X github.com/indigo-web/minihttp/version.Version=..."
	Version = "0.1.0"
	// GitCommit is set at build time
	GitCommit = ""
	GoVersion = runtime.Version()
	Platform  = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)

	AppName     = "minihttp"
	Description = "A minimal HTTP server serving two static resources and saving submitted data"
)

// Info returns the version with the build information.
func Info() string {
	info := fmt.Sprintf("%s version %s", AppName, Version)
	if GitCommit != "" {
		info += fmt.Sprintf(" (commit %s)", GitCommit)
	}

	return fmt.Sprintf("%s %s %s", info, GoVersion, Platform)
}
