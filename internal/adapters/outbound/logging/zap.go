package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds the process logger. Logs go to stderr so stdout stays free for
// reports. Verbose lowers the level to debug.
func New(verbose bool, format string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	switch format {
	case "", FormatJSON:
	case FormatConsole:
		config.Encoding = FormatConsole
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: json, console)", format)
	}
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("shipgate"), nil
}
