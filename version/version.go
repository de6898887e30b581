package version

// Version is the release of the autopilot, overridden at build time with
// -ldflags "-X github.com/battlesnakeio/autopilot/version.Version=...".
var Version = "0.1.0-dev"
