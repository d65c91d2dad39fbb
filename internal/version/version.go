// Package version holds build metadata, overridden at link time:
//
//	go build -ldflags "-X github.com/evvalley/search-api/internal/version.Version=v1.2.3"
package version

var (
	Version = "dev"
	Commit  = "none"
)
