// Package version exposes build metadata (semantic version, commit, build
// time) injected via ldflags and a cobra subcommand that prints it.
package version
