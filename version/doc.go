// Package version reports build information for flowkit hosts: the host's
// own version, commit and build time, plus the flowkit module version
// compiled into the binary.
//
// Host values are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/flowkit/version.Version=1.0.0"
package version
