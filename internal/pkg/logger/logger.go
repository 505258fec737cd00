package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds the process logger. Prod-like environments get sampled
// JSON output, everything else the development console encoder.
func New(appEnv string) (*zap.Logger, error) {
	env := strings.ToLower(strings.TrimSpace(appEnv))
	if env == "prod" || env == "production" || env == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
