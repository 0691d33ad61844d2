// Package common provides shared service plumbing: logger setup and
// build/version information used by the binaries in cmd/.
package common

import (
	"log/slog"
	"os"
)

// PackageName is the service identifier used for metrics namespaces and logs.
const PackageName = "offchain_resolution_gateway"

// Version is set at build time via -ldflags.
var Version = "dev"

// LoggingOpts configures the process-wide structured logger.
type LoggingOpts struct {
	// Debug enables debug-level logging.
	Debug bool

	// JSON switches the handler to JSON output.
	JSON bool

	// Service is added as a "service" attribute to all records.
	Service string

	// Version is added as a "version" attribute to all records.
	Version string
}

// SetupLogger creates a slog.Logger according to the provided options.
func SetupLogger(opts *LoggingOpts) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	log := slog.New(handler)
	if opts.Service != "" {
		log = log.With("service", opts.Service)
	}
	if opts.Version != "" {
		log = log.With("version", opts.Version)
	}
	return log
}
