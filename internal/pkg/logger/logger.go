package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Production emits JSON with unix
// timestamps; development switches to the pretty console writer. Unknown
// levels fall back to debug so a misconfigured box stays maximally verbose.
func Init(level string, development bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(parsed)

	if development {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
