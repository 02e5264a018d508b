// ABOUTME: Access-token resolution for timeline operations
// ABOUTME: Per-call override wins, then the configured default, then the environment

package creds

import (
	"errors"
	"os"
)

// EnvToken is the environment variable consulted when neither a per-call
// override nor a configured default token is available.
const EnvToken = "PINSYNC_TOKEN"

// ErrNoToken is returned when no token can be resolved from any source.
// This is the one precondition failure that propagates to callers.
var ErrNoToken = errors.New("no timeline token available")

// Resolver supplies the access token for an operation.
type Resolver interface {
	// Token resolves the token to use, preferring the per-call override.
	Token(override string) (string, error)
}

// ConfigResolver resolves tokens from a configured default, falling back to
// the PINSYNC_TOKEN environment variable.
type ConfigResolver struct {
	defaultToken string
	getenv       func(string) string // injectable for tests
}

// NewConfigResolver creates a resolver with the given default token, which
// may be empty.
func NewConfigResolver(defaultToken string) *ConfigResolver {
	return &ConfigResolver{
		defaultToken: defaultToken,
		getenv:       os.Getenv,
	}
}

// Token resolves in priority order: override, configured default, environment.
func (r *ConfigResolver) Token(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if r.defaultToken != "" {
		return r.defaultToken, nil
	}
	if tok := r.getenv(EnvToken); tok != "" {
		return tok, nil
	}
	return "", ErrNoToken
}
