package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
project:
  root: src
  exclude: [generated]
run:
  parallelism: 2
  recipes:
    - name: RemoveUnusedLocalVariables
      options:
        ignoreVariablesNamed: ignored
cache:
  db: .jrewrite.db
log:
  format: json
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.Project.Root)
	assert.Equal(t, []string{"generated"}, cfg.Project.Exclude)
	assert.Equal(t, 2, cfg.Run.Parallelism)
	assert.True(t, cfg.Run.Verify, "defaults survive a partial file")
	require.Len(t, cfg.Run.Recipes, 1)
	assert.Equal(t, "RemoveUnusedLocalVariables", cfg.Run.Recipes[0].Name)
	assert.Equal(t, "ignored", cfg.Run.Recipes[0].Options["ignoreVariablesNamed"])
	assert.Equal(t, ".jrewrite.db", cfg.Cache.DB)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("JREWRITE_PARALLELISM", "8")
	t.Setenv("JREWRITE_CACHE_DB", "/tmp/other.db")
	t.Setenv("JREWRITE_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(writeConfig(t))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Run.Parallelism)
	assert.Equal(t, "/tmp/other.db", cfg.Cache.DB)
	assert.Equal(t, "debug", cfg.Log.Level)

	t.Setenv("JREWRITE_PARALLELISM", "many")
	_, err = LoadConfig(writeConfig(t))
	assert.Error(t, err)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_SchemaErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"misspelled key": "run:\n  paralelism: 2\n",
		"wrong type":     "run:\n  parallelism: many\n",
		"nameless":       "run:\n  recipes:\n    - options: {a: b}\n",
		"bad format":     "log:\n  format: xml\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFile)
			require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
			_, err := LoadConfig(path)
			assert.ErrorContains(t, err, "invalid "+path)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]byte(sample)))
	assert.NoError(t, Validate(nil))
	assert.NoError(t, Validate([]byte("run:\n  recipes:\n    - name: RemoveEmptyStatements\n      options:\n        allowEmptyLoopBody: true\n")))
	assert.ErrorContains(t, Validate([]byte("run:\n  paralelism: 2\n")), "paralelism")
}

func TestLoadOrDefault_Missing(t *testing.T) {
	t.Setenv("JREWRITE_PARALLELISM", "3")
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Project.Root)
	assert.True(t, cfg.Run.Verify)
	assert.Equal(t, 3, cfg.Run.Parallelism)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "json"
	var buf bytes.Buffer
	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "unit", "A.java")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"unit":"A.java"`)

	cfg.Log.Level = "loud"
	_, err = cfg.NewLogger(&buf)
	assert.Error(t, err)
	cfg.Log.Level = "info"
	cfg.Log.Format = "xml"
	_, err = cfg.NewLogger(&buf)
	assert.Error(t, err)
}
