package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text handler, debug toggling the
// log level so scraping internals (selectors tried, raw fragments)
// show up while debugging markup drift.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
