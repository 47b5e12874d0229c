package shared

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger returns a logger writing to w at level
func SetupLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
}

// SetupFileLogger logs to filename, truncating it. The terminal belongs to
// the TUI, so interactive commands log here instead of stderr.
func SetupFileLogger(filename string, level log.Level) (*log.Logger, io.Closer, error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return SetupLogger(f, level), f, nil
}
