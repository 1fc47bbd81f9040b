package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kohitsu/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromReaderOverridesDefaults(t *testing.T) {
	t.Parallel()
	doc := `
server:
  addr: ":9000"
  log_level: debug
lexicon:
  path: data/kogo.csv
  encoding: shift_jis
analyzer:
  dict: uni
presub:
  policy: freeze
convert:
  default_ratio: 0.3
`
	cfg, err := config.LoadFromReader(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, config.LogDebug, cfg.Server.LogLevel)
	assert.Equal(t, "stdout", cfg.Server.LogOutput, "unset field keeps default")
	assert.Equal(t, "data/kogo.csv", cfg.Lexicon.Path)
	assert.Equal(t, "shift_jis", cfg.Lexicon.Encoding)
	assert.Equal(t, "uni", cfg.Analyzer.Dict)
	assert.Equal(t, "normal", cfg.Analyzer.Mode)
	assert.Equal(t, "freeze", cfg.Presub.Policy)
	assert.InDelta(t, 0.3, cfg.Convert.DefaultRatio, 1e-9)
	assert.Equal(t, 4, cfg.Convert.BatchLimit)
	assert.Equal(t, "none", cfg.Trace.Exporter)
}

func TestLoadFromReaderEmptyDocument(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	_, err := config.LoadFromReader(strings.NewReader("server:\n  port: 80\n"))
	require.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	t.Parallel()
	doc := `
server:
  log_level: loud
analyzer:
  dict: jumandic
  mode: fuzzy
presub:
  policy: greedy
convert:
  default_ratio: 1.5
  batch_limit: 0
trace:
  exporter: jaeger
`
	_, err := config.LoadFromReader(strings.NewReader(doc))
	require.Error(t, err)
	for _, want := range []string{"log_level", "analyzer.dict", "analyzer.mode", "presub.policy", "default_ratio", "batch_limit", "trace.exporter"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "kohitsu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dump:\n  dir: /tmp/dumps\n"), 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dumps", cfg.Dump.Dir)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()
	env := map[string]string{
		"KOHITSU_ADDR":           ":7000",
		"KOHITSU_LOG_LEVEL":      "warn",
		"KOHITSU_RELEASE":        "true",
		"KOHITSU_LEXICON_PATH":   "/srv/kogo.csv",
		"KOHITSU_PRESUB_POLICY":  "freeze",
		"KOHITSU_DEFAULT_RATIO":  "0.7",
		"KOHITSU_BATCH_LIMIT":    "8",
		"KOHITSU_TRACE_EXPORTER": "stdout",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg := config.Default()
	require.NoError(t, config.ApplyEnv(cfg, lookup))
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, config.LogWarn, cfg.Server.LogLevel)
	assert.True(t, cfg.Server.Release)
	assert.Equal(t, "/srv/kogo.csv", cfg.Lexicon.Path)
	assert.Equal(t, "freeze", cfg.Presub.Policy)
	assert.InDelta(t, 0.7, cfg.Convert.DefaultRatio, 1e-9)
	assert.Equal(t, 8, cfg.Convert.BatchLimit)
	assert.Equal(t, "stdout", cfg.Trace.Exporter)
}

func TestApplyEnvBadValues(t *testing.T) {
	t.Parallel()
	lookup := func(k string) (string, bool) {
		if k == "KOHITSU_DEFAULT_RATIO" {
			return "half", true
		}
		return "", false
	}
	err := config.ApplyEnv(config.Default(), lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KOHITSU_DEFAULT_RATIO")
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KOHITSU_TEST_DOTENV=freeze\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("KOHITSU_TEST_DOTENV") })

	require.NoError(t, config.LoadDotenv(path))
	assert.Equal(t, "freeze", os.Getenv("KOHITSU_TEST_DOTENV"))
	assert.NoError(t, config.LoadDotenv(filepath.Join(t.TempDir(), "absent.env")))
}
