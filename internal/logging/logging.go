package logging

import (
	"io"
	"os"

	"github.com/limaJavier/invigilation/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger from the config and returns it for injection into the engine
func Setup(cfg config.LogConfig) zerolog.Logger {
	var output io.Writer = os.Stderr
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return log.Logger
}
