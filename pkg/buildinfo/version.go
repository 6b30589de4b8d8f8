// Package buildinfo holds version information stamped in at build time:
//
//	go build -ldflags "-X github.com/matzehuels/flipbook/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/flipbook/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/flipbook/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/flipbook
package buildinfo

import "fmt"

var (
	// Version is the release tag, or "dev" for local builds.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// Info is the JSON form of the build information.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String returns the build information on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
