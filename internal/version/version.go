// Package version carries the build version stamped in via ldflags:
//
//	-X github.com/arenagm/companion/internal/version.Version=0.1.0
package version

var Version = "dev"

// String returns the version reported by the health endpoint and logs.
func String() string {
	return Version
}
