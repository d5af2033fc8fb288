package config

// Version is the API semantic version.
// Set at build time via: -ldflags "-X github.com/sample-graph/sample-graph-api/internal/config.Version=<tag>"
var Version = "0.1.0"
