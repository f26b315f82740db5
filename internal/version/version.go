// Package version records the build metadata stamped in via -ldflags.
package version

// Version is the semantic version of this build.
var Version = "0.1.0-dev"

// GitCommit and BuildDate are optional build stamps; empty when the binary
// was built without -ldflags.
var (
	GitCommit = ""
	BuildDate = ""
)
