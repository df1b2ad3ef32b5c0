package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment selects which configuration overlay file is applied.
type Environment string

const (
	EnvironmentLocal      Environment = "local"
	EnvironmentProduction Environment = "production"
)

// EnvironmentVariable is the process environment variable that selects the
// configuration overlay. Unset or empty defaults to local.
const EnvironmentVariable = "APP_ENVIRONMENT"

// ParseEnvironment parses an environment name case-insensitively. Any value
// other than "local" or "production" is a configuration error.
func ParseEnvironment(raw string) (Environment, error) {
	switch strings.ToLower(raw) {
	case string(EnvironmentLocal):
		return EnvironmentLocal, nil
	case string(EnvironmentProduction):
		return EnvironmentProduction, nil
	default:
		return "", fmt.Errorf("%q is not a supported environment: use either %q or %q",
			raw, EnvironmentLocal, EnvironmentProduction)
	}
}

// EnvironmentFromOS resolves the environment from APP_ENVIRONMENT,
// defaulting to local when the variable is unset or empty.
func EnvironmentFromOS() (Environment, error) {
	raw := os.Getenv(EnvironmentVariable)
	if raw == "" {
		return EnvironmentLocal, nil
	}
	return ParseEnvironment(raw)
}

func (e Environment) String() string {
	return string(e)
}
