package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codetrainer/internal/llm"
)

// clearLLMEnv hides any API keys from the developer's shell.
func clearLLMEnv(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearLLMEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.DB)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ":8888", cfg.Server.Addr)
	assert.Equal(t, 45*time.Second, cfg.Acquire.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Acquire.AutoStartDelay)
	assert.Zero(t, cfg.Acquire.StartGrace)
	assert.Empty(t, cfg.LLM.Provider, "no provider without keys")
	assert.False(t, cfg.LLM.Configured())
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
}

func TestLoad_DiscoversVendorKey(t *testing.T) {
	clearLLMEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
	assert.True(t, cfg.LLM.Configured())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearLLMEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("CODETRAINER_LLM_PROVIDER", "gemini")
	t.Setenv("CODETRAINER_LLM_GEMINI_API_KEY", "g-key")
	t.Setenv("CODETRAINER_ACQUIRE_REQUEST_TIMEOUT", "5s")
	t.Setenv("CODETRAINER_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Acquire.RequestTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	clearLLMEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db: /tmp/quizzes.db
llm:
  provider: openrouter
  openrouter:
    api_key: or-key
    model: anthropic/claude-3.5-haiku
server:
  addr: 127.0.0.1:9000
acquire:
  start_grace: 3s
backend:
  url: http://localhost:9000/api/question
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "/tmp/quizzes.db", cfg.DB)
	assert.Equal(t, llm.ProviderOpenRouter, cfg.LLM.Provider)
	assert.Equal(t, "or-key", cfg.LLM.OpenRouter.APIKey)
	assert.Equal(t, "anthropic/claude-3.5-haiku", cfg.LLM.OpenRouter.Model)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Acquire.StartGrace)
	assert.Equal(t, "http://localhost:9000/api/question", cfg.Backend.URL)
}

func TestLoad_WorkingDirectoryFile(t *testing.T) {
	clearLLMEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "codetrainer.yaml"), []byte("log:\n  level: error\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
