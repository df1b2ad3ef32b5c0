package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigDirName is the directory, relative to the working directory
// (or an ancestor of it), that holds the layered configuration files.
const DefaultConfigDirName = "configuration"

const defaultLogLevel = "info"

// Load resolves the full Settings from the default configuration directory.
// Resolution order, later sources winning on a per-key basis:
//
//  1. base.yaml
//  2. <environment>.yaml, selected by APP_ENVIRONMENT (default "local")
//  3. process environment variables (APP_SERVER_*, APP_DATABASE_*, LOG_LEVEL)
//
// Any missing file, unparsable YAML or type mismatch is returned as an error
// with a descriptive cause chain; callers treat that as fatal.
func Load() (*Settings, error) {
	dir, err := FindConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom is Load with an explicit configuration directory.
func LoadFrom(dir string) (*Settings, error) {
	// Best effort: a .env file is a local development convenience, not a
	// required source.
	_ = godotenv.Load()

	env, err := EnvironmentFromOS()
	if err != nil {
		return nil, fmt.Errorf("resolve environment: %w", err)
	}

	var settings Settings
	if err := decodeFile(filepath.Join(dir, "base.yaml"), &settings); err != nil {
		return nil, err
	}
	if err := decodeFile(filepath.Join(dir, string(env)+".yaml"), &settings); err != nil {
		return nil, err
	}

	applyEnvOverrides(&settings)

	if settings.Logging.Level == "" {
		settings.Logging.Level = defaultLogLevel
	}
	if err := validate(&settings); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}
	return &settings, nil
}

// FindConfigDir walks upward from the working directory until it finds a
// configuration directory containing base.yaml. Tests run with the package
// directory as working directory, so the walk is what lets them share the
// repository's configuration files.
func FindConfigDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine working directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, DefaultConfigDirName)
		if _, err := os.Stat(filepath.Join(candidate, "base.yaml")); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory with base.yaml found above working directory", DefaultConfigDirName)
		}
		dir = parent
	}
}

// decodeFile decodes one YAML layer into settings. Decoding into the already
// populated struct only touches keys present in the file, which is exactly
// the per-key overlay precedence we want.
func decodeFile(path string, settings *Settings) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(settings); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(settings *Settings) {
	settings.Server.Host = getEnv("APP_SERVER_HOST", settings.Server.Host)
	settings.Server.Port = getEnvPort("APP_SERVER_PORT", settings.Server.Port)
	settings.Database.Host = getEnv("APP_DATABASE_HOST", settings.Database.Host)
	settings.Database.Port = getEnvPort("APP_DATABASE_PORT", settings.Database.Port)
	settings.Database.Name = getEnv("APP_DATABASE_NAME", settings.Database.Name)
	settings.Database.User.Name = getEnv("APP_DATABASE_USER", settings.Database.User.Name)
	if v := os.Getenv("APP_DATABASE_PASSWORD"); v != "" {
		settings.Database.User.Password = NewSecret(v)
	}
	settings.Logging.Level = getEnv("LOG_LEVEL", settings.Logging.Level)
}

func validate(settings *Settings) error {
	var errs []error
	if settings.Server.Host == "" {
		errs = append(errs, errors.New("server.host must not be empty"))
	}
	if settings.Database.Host == "" {
		errs = append(errs, errors.New("database.host must not be empty"))
	}
	if settings.Database.Name == "" {
		errs = append(errs, errors.New("database.name must not be empty"))
	}
	if settings.Database.Port == 0 {
		errs = append(errs, errors.New("database.port must not be 0"))
	}
	if settings.Database.User.Name == "" {
		errs = append(errs, errors.New("database.user.name must not be empty"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvPort(key string, fallback uint16) uint16 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	port, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return fallback
	}
	return uint16(port)
}
