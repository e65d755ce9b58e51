// Package buildinfo carries build-time version metadata injected via -ldflags.
package buildinfo

// Version is the release version of the binary.
var Version = "dev"

// Commit is the git commit the binary was built from.
var Commit = "unknown"

// BuildDate is the build timestamp in RFC 3339 form.
var BuildDate = "unknown"
