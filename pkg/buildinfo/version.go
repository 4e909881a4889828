// Package buildinfo carries version metadata stamped at build time.
//
// Release builds set the variables through ldflags:
//
//	go build -ldflags "-X github.com/edgeloom/edgeloom/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/edgeloom/edgeloom/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/edgeloom/edgeloom/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds report "dev".
package buildinfo

import "fmt"

var (
	// Version is the semantic version of the build.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// Template returns the version template used by the root command.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
