// Package bootstrap checks the process environment before the API starts.
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ErrMissingEnv wraps the list of required variables that were not set.
var ErrMissingEnv = errors.New("missing required environment variables")

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Guard validates the presence of configuration values. Required keys
// block startup; recommended keys only produce a warning.
type Guard struct {
	Required    []string
	Recommended []string

	logger *zap.Logger
}

// APIGuard lists the variables the API process depends on.
func APIGuard(logger *zap.Logger) *Guard {
	return &Guard{
		Required:    []string{"DATABASE_URL", "ADMIN_JWT_SECRET"},
		Recommended: []string{"REDIS_ADDR", "HTTP_ADDR"},
		logger:      logger,
	}
}

func NewGuard(logger *zap.Logger, required, recommended []string) *Guard {
	return &Guard{Required: required, Recommended: recommended, logger: logger}
}

// Check reports every missing required key at once. A key set to an empty
// or whitespace-only value counts as missing.
func (g *Guard) Check(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	logger := g.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var missing []string
	for _, key := range g.Required {
		if !present(lookup, key) {
			logger.Warn("required environment variable is not set", zap.String("key", key))
			missing = append(missing, key)
		}
	}
	for _, key := range g.Recommended {
		if !present(lookup, key) {
			logger.Warn("environment variable is not set, using default", zap.String("key", key))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}
	return nil
}

func present(lookup LookupFunc, key string) bool {
	v, ok := lookup(key)
	return ok && strings.TrimSpace(v) != ""
}
