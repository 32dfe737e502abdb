// Package logging wires the service's structured logging: JSON to stdout for
// the log collector, with ERROR and above mirrored to Postgres once the
// database is up.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs the base JSON logger. main swaps it for a tee over the
// Postgres sink after the database connects.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
