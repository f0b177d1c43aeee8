// Package version exposes the build version, overridden at link time with
// -ldflags "-X github.com/estatefolio/investor-dashboard/internal/version.Version=1.2.3".
package version

// Version is the application version.
var Version = "dev"
