package nexus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dbConfig struct {
	Host     string `env:"NEXUS_TEST_DB_HOST" env-default:"localhost" yaml:"host"`
	Password string `env:"NEXUS_TEST_DB_PASSWORD" yaml:"password"`
}

type testConfig struct {
	DB      dbConfig `yaml:"db"`
	Port    string   `env:"NEXUS_TEST_PORT" env-default:"8080" yaml:"port"`
	Backend string   `env:"NEXUS_TEST_BACKEND" env-default:"memory" yaml:"backend" validate:"oneof=memory redis"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, NewLoader(WithOnlyEnvironment()).Load(&cfg))

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.Backend)
}

func TestLoader_Environment(t *testing.T) {
	t.Setenv("NEXUS_TEST_PORT", "9090")
	t.Setenv("NEXUS_TEST_DB_HOST", "db.internal")

	var cfg testConfig
	require.NoError(t, NewLoader(WithOnlyEnvironment()).Load(&cfg))

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
}

func TestLoader_EnvFile(t *testing.T) {
	t.Setenv("NEXUS_TEST_PORT", "7000")
	t.Setenv("NEXUS_TEST_BACKEND", "")
	require.NoError(t, os.Unsetenv("NEXUS_TEST_BACKEND"))
	envFile := writeFile(t, "test.env", "NEXUS_TEST_BACKEND=redis\nNEXUS_TEST_PORT=1\n")

	var cfg testConfig
	require.NoError(t, NewLoader(WithEnvFiles(envFile, "missing.env")).Load(&cfg))

	assert.Equal(t, "redis", cfg.Backend)
	assert.Equal(t, "7000", cfg.Port, "process environment wins over dotenv files")
}

func TestLoader_ConfigFile(t *testing.T) {
	file := writeFile(t, "config.yml", "port: \"6000\"\ndb:\n  host: file-db\n")
	t.Setenv("NEXUS_TEST_DB_HOST", "env-db")

	var cfg testConfig
	require.NoError(t, NewLoader(WithFileName(file), WithEnvFiles(filepath.Join(t.TempDir(), "none"))).Load(&cfg))

	assert.Equal(t, "6000", cfg.Port)
	assert.Equal(t, "env-db", cfg.DB.Host)
}

func TestLoader_Errors(t *testing.T) {
	t.Run("NotAPointer", func(t *testing.T) {
		err := NewLoader(WithOnlyEnvironment()).Load(testConfig{})
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, ErrCodeInvalidType, cerr.Code)
	})

	t.Run("MissingFile", func(t *testing.T) {
		var cfg testConfig
		err := NewLoader(WithFileName("/does/not/exist.yml")).Load(&cfg)
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, ErrCodeFileNotFound, cerr.Code)
	})

	t.Run("Validation", func(t *testing.T) {
		t.Setenv("NEXUS_TEST_BACKEND", "memcached")
		var cfg testConfig
		err := NewLoader(WithOnlyEnvironment()).Load(&cfg)
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, ErrCodeValidation, cerr.Code)
	})

	t.Run("PlaceholderSecretInNestedStruct", func(t *testing.T) {
		t.Setenv("NEXUS_TEST_DB_PASSWORD", "changeme")
		var cfg testConfig
		err := NewLoader(WithOnlyEnvironment()).Load(&cfg)
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, ErrCodeSecurityCheck, cerr.Code)
		assert.ErrorContains(t, cerr.Cause, "DB.Password")
	})
}

type staticSource struct {
	name     string
	priority int
	port     string
	err      error
}

func (s staticSource) Load(_ context.Context, target interface{}) error {
	if s.err != nil {
		return s.err
	}
	target.(*testConfig).Port = s.port
	return nil
}

func (s staticSource) Name() string  { return s.name }
func (s staticSource) Priority() int { return s.priority }

func TestLoader_Sources(t *testing.T) {
	t.Run("HighestPriorityWins", func(t *testing.T) {
		var cfg testConfig
		err := NewLoader(WithOnlyEnvironment(), WithSources(
			staticSource{name: "high", priority: 10, port: "2"},
			staticSource{name: "low", priority: 1, port: "1"},
		)).Load(&cfg)
		require.NoError(t, err)
		assert.Equal(t, "2", cfg.Port)
		assert.Equal(t, "localhost", cfg.DB.Host, "zero fields in a source leave the base untouched")
	})

	t.Run("Failure", func(t *testing.T) {
		var cfg testConfig
		err := NewLoader(WithOnlyEnvironment(), WithSources(
			staticSource{name: "vault", err: errors.New("sealed")},
		)).Load(&cfg)
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, ErrCodeSourceFailed, cerr.Code)
		assert.ErrorContains(t, cerr.Cause, "sealed")
	})
}
