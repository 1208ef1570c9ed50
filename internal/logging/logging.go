// Package logging builds the structured logger from configuration.
package logging

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/valpere/lectran/internal/config"
)

// New builds a logger writing to w with the configured level and
// format ("text" or "json").
func New(w io.Writer, cfg config.Log) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           parseLevel(cfg.Level),
	})
	if cfg.Format == "json" {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

// Discard returns a logger that swallows everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
