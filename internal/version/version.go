// ABOUTME: Build and product identification for the streamplay binary
// ABOUTME: Version may be overridden at link time with -ldflags -X
package version

const (
	Product      = "streamplay"
	Manufacturer = "Resonate Protocol"
)

// Version is replaced by the release build.
var Version = "0.1.0-dev"

// String renders the line printed by `streamplay version`.
func String() string {
	return Product + " " + Version + " (" + Manufacturer + ")"
}
