package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.ChatModel)
	assert.Equal(t, 20000, cfg.Tools.MaxInlineTextBytes)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Gemini.ChatModel, cfg.Gemini.ChatModel)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
gemini:
  chat_model: gemini-exp
  timeout: 30s
voice:
  autoplay: true
logging:
  debug_mode: true
  categories:
    chat: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-exp", cfg.Gemini.ChatModel)
	assert.True(t, cfg.Voice.Autoplay)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, 30*time.Second, cfg.GetGeminiTimeout())
	// Untouched sections keep their defaults.
	assert.Equal(t, "imagen-3.0-generate-002", cfg.Gemini.ImageModel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gemini:\n  api_key: from-file\n"), 0644))

	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("MENTORLAB_CHAT_MODEL", "gemini-env-model")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-env-model", cfg.Gemini.ChatModel)
}

func TestAPIKeyFallbackEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.Gemini.APIKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gemini.ChatModel = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Storage.DatabasePath = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Tools.MaxInlineTextBytes = 0
	assert.Error(t, cfg.Validate())
}

func TestTimeoutGettersFallBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gemini.Timeout = "not-a-duration"
	cfg.Tools.RunTimeout = ""

	assert.Equal(t, 120*time.Second, cfg.GetGeminiTimeout())
	assert.Equal(t, 5*time.Second, cfg.GetRunTimeout())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Voice.VoiceID = "en-us-zira"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "en-us-zira", loaded.Voice.VoiceID)
}
