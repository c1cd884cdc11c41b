package logging

import (
	"go.uber.org/zap"
)

// New builds the root logger for the given environment.
// Local and development environments get console output with colors,
// everything else gets production JSON logging.
func New(env string) (*zap.Logger, error) {
	switch env {
	case "local", "development":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}
