package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Init(environment string, debug bool) {
	InitWithWriter(environment, debug, os.Stdout)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(environment string, debug bool, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	output := out
	if environment == "development" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)
}

func WithRequestID(requestID string) zerolog.Logger {
	return log.With().Str("request_id", requestID).Logger()
}

func WithEvaluationID(evaluationID string) zerolog.Logger {
	return log.With().Str("evaluation_id", evaluationID).Logger()
}

func WithExecutionID(executionID string) zerolog.Logger {
	return log.With().Str("execution_id", executionID).Logger()
}
