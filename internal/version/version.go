// Package version carries the build stamp printed by scalebar, sweep and
// scalebar-server. Release builds set it with -ldflags -X.
package version

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// GitSHA is the commit the binaries were built from.
	GitSHA = "unknown"
	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)
