// Package buildconfig exposes version metadata injected at build time via
// ldflags.
package buildconfig

var (
	version = "dev"
	commit  = "unknown"
)

func Version() string { return version }

func Commit() string { return commit }
