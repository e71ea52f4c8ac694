// Package version exposes the build version of the eodhist binary.
package version

// Version is the current version of eodhistdata.
// It can be overridden at build time with -ldflags "-X ...version.Version=v1.2.3".
var Version = "0.1.0-dev"

// GetVersion returns the version string.
func GetVersion() string {
	return Version
}
