// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/Tafitantsu/Transport-cost/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/Tafitantsu/Transport-cost/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/Tafitantsu/Transport-cost/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/transport
package buildinfo

import "fmt"

// Unstamped builds report these values.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the multi-line form printed by "transport --version".
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is String as a cobra version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}

// Short is Version plus the abbreviated commit, e.g. "v1.2.0+0123456".
// The server reports it from /status.
func Short() string {
	if Commit == "none" || Commit == "" {
		return Version
	}
	return Version + "+" + Commit[:min(7, len(Commit))]
}
