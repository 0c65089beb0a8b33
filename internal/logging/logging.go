package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/naveenvivek/aiagentrag/internal/config"
)

// Setup configures the global zerolog logger: console output with RFC3339
// timestamps and caller info, plus an append-only file sink when cfg.File is
// set. An unknown level falls back to info.
func Setup(cfg config.LogConfig) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	if cfg.File != "" {
		if dir := filepath.Dir(cfg.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating log directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file %s: %w", cfg.File, err)
		}
		w = zerolog.MultiLevelWriter(w, f)
	}

	log.Logger = log.Output(w).With().Caller().Logger()
	return nil
}
