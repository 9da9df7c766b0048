package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SONAR_API_KEY", "")
	t.Setenv("WAYFARER_MODEL", "")
	os.Unsetenv("GEMINI_API_KEY")
	os.Unsetenv("OPENAI_API_KEY")
	os.Unsetenv("SONAR_API_KEY")
	os.Unsetenv("WAYFARER_MODEL")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.json"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.Limits.MaxQueryLoops)
	assert.Equal(t, 12, cfg.Limits.MaxFillLoops)
	assert.Equal(t, 5, cfg.Limits.MaxValidateLoops)
	assert.Equal(t, 10, cfg.Limits.MaxConcurrentSearch)
	assert.Equal(t, 6, cfg.Limits.FreeHoursPerQuery)
}

func TestLoad_SparseFileFillsDefaults(t *testing.T) {
	clearProviderEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"llm": {"provider": "openai", "api_key": "file-key"}, "limits": {"max_fill_loops": 4}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "file-key", cfg.LLM.APIKey)
	assert.Equal(t, 4, cfg.Limits.MaxFillLoops)
	// Untouched limits come back as defaults, not zero.
	assert.Equal(t, 5, cfg.Limits.MaxValidateLoops)
	assert.Equal(t, 60, cfg.Limits.MaxScheduleItems)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY sets provider", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "g-key", cfg.LLM.APIKey)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
	})

	t.Run("precedence: GEMINI overrides OPENAI", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "oa-key")
		t.Setenv("GEMINI_API_KEY", "g-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "g-key", cfg.LLM.APIKey)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
	})

	t.Run("SONAR_API_KEY sets search key only", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("SONAR_API_KEY", "s-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "s-key", cfg.Search.APIKey)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
	})

	t.Run("WAYFARER_MODEL overrides model", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("WAYFARER_MODEL", "gemini-2.5-pro")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.LLM.Timeout = "not-a-duration"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Limits.MaxConcurrentSearch = 0
	assert.Error(t, cfg.Validate())
}
