package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

const baseYAML = `server:
  host: "127.0.0.1"
  port: 8000
database:
  name: "newsletter"
  host: "127.0.0.1"
  port: 5432
  user:
    name: "postgres"
    password: "basepw"
logging:
  level: "info"
`

// clearOverrides pins the override variables so ambient environment cannot
// leak into assertions.
func clearOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_SERVER_HOST", "APP_SERVER_PORT",
		"APP_DATABASE_HOST", "APP_DATABASE_PORT", "APP_DATABASE_NAME",
		"APP_DATABASE_USER", "APP_DATABASE_PASSWORD", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromMergesBaseAndOverlay(t *testing.T) {
	clearOverrides(t)
	t.Setenv(EnvironmentVariable, "local")
	dir := writeConfigDir(t, map[string]string{
		"base.yaml": baseYAML,
		"local.yaml": `server:
  port: 9000
logging:
  level: "debug"
`,
	})

	settings, err := LoadFrom(dir)
	require.NoError(t, err)

	// Overlay wins where it speaks, base survives where it does not.
	assert.Equal(t, uint16(9000), settings.Server.Port)
	assert.Equal(t, "debug", settings.Logging.Level)
	assert.Equal(t, "127.0.0.1", settings.Server.Host)
	assert.Equal(t, "newsletter", settings.Database.Name)
	assert.Equal(t, "basepw", settings.Database.User.Password.ExposeSecret())
}

func TestLoadFromSelectsOverlayByEnvironment(t *testing.T) {
	clearOverrides(t)
	t.Setenv(EnvironmentVariable, "production")
	dir := writeConfigDir(t, map[string]string{
		"base.yaml": baseYAML,
		"local.yaml": `server:
  port: 9000
`,
		"production.yaml": `server:
  host: "0.0.0.0"
`,
	})

	settings, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", settings.Server.Host)
	assert.Equal(t, uint16(8000), settings.Server.Port)
}

func TestLoadFromEnvVariablesOverrideFiles(t *testing.T) {
	clearOverrides(t)
	t.Setenv(EnvironmentVariable, "local")
	t.Setenv("APP_DATABASE_NAME", "elsewhere")
	t.Setenv("APP_DATABASE_PASSWORD", "envpw")
	t.Setenv("APP_SERVER_PORT", "7070")
	dir := writeConfigDir(t, map[string]string{
		"base.yaml":  baseYAML,
		"local.yaml": "{}\n",
	})

	settings, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "elsewhere", settings.Database.Name)
	assert.Equal(t, "envpw", settings.Database.User.Password.ExposeSecret())
	assert.Equal(t, uint16(7070), settings.Server.Port)
}

func TestLoadFromFailsOnMissingOverlay(t *testing.T) {
	clearOverrides(t)
	t.Setenv(EnvironmentVariable, "production")
	dir := writeConfigDir(t, map[string]string{
		"base.yaml": baseYAML,
	})

	_, err := LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "production.yaml")
}

func TestLoadFromFailsOnMalformedYAML(t *testing.T) {
	clearOverrides(t)
	t.Setenv(EnvironmentVariable, "local")
	dir := writeConfigDir(t, map[string]string{
		"base.yaml":  "server: [not, a, mapping\n",
		"local.yaml": "{}\n",
	})

	_, err := LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base.yaml")
}

func TestLoadFromFailsOnTypeMismatch(t *testing.T) {
	clearOverrides(t)
	t.Setenv(EnvironmentVariable, "local")
	dir := writeConfigDir(t, map[string]string{
		"base.yaml": `server:
  host: "127.0.0.1"
  port: "not-a-number"
`,
		"local.yaml": "{}\n",
	})

	_, err := LoadFrom(dir)
	require.Error(t, err)
}

func TestLoadFromFailsOnInvalidEnvironment(t *testing.T) {
	clearOverrides(t)
	t.Setenv(EnvironmentVariable, "staging")
	dir := writeConfigDir(t, map[string]string{
		"base.yaml": baseYAML,
	})

	_, err := LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staging")
}

func TestLoadFromDefaultsLogLevel(t *testing.T) {
	clearOverrides(t)
	t.Setenv(EnvironmentVariable, "local")
	dir := writeConfigDir(t, map[string]string{
		"base.yaml": `server:
  host: "127.0.0.1"
  port: 8000
database:
  name: "newsletter"
  host: "127.0.0.1"
  port: 5432
  user:
    name: "postgres"
    password: "pw"
`,
		"local.yaml": "{}\n",
	})

	settings, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "info", settings.Logging.Level)
}

func TestServerAddressSupportsAnyPort(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8000", ServerSettings{Host: "127.0.0.1", Port: 8000}.Address())
	assert.Equal(t, "127.0.0.1:0", ServerSettings{Host: "127.0.0.1", Port: 0}.Address())
}

func TestFindConfigDirWalksUpward(t *testing.T) {
	dir, err := FindConfigDir()
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "base.yaml"))
}
