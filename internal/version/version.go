// Package version holds build information, set with
//
//	go build -ldflags "-X assessment-cam/internal/version.Version=1.2.0 \
//	  -X assessment-cam/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns a one-line description for logs and the About dialog.
func String() string {
	return fmt.Sprintf("v%s (%s, built %s)", Version, GitCommit, BuildTime)
}
