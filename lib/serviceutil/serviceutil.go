package serviceutil

import (
	"log/slog"
	"os"
)

func Fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
