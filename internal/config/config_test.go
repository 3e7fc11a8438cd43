// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/material-logger/pkg/types"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper(t), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{types.BackendWhisper}, cfg.Transcription.Backends)
	assert.Equal(t, "en", cfg.Transcription.Language)
	assert.Equal(t, 60*time.Second, cfg.Transcription.Timeout)
	assert.Equal(t, 3, cfg.Transcription.MaxRetries)
	assert.Equal(t, 2, cfg.Transcription.Concurrency)
	assert.Equal(t, "whisper-1", cfg.Transcription.OpenAIModel)
	assert.True(t, cfg.Ledger.Enabled)
	assert.Equal(t, "ledger", cfg.Ledger.Dir)
	assert.Equal(t, 100, cfg.Ledger.MaxResults)
	assert.False(t, cfg.Correction.Enabled)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "material-logger.yaml")
	content := `
transcription:
  backends: [openai, whisper]
  whisper_url: http://whisper.local:9000
  timeout: 15s
vocabulary:
  materials: [drywall, nails]
sheets:
  spreadsheet_url: https://docs.google.com/spreadsheets/d/abc123/edit
csv:
  path: out/materials.csv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := newViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"openai", "whisper"}, cfg.Transcription.Backends)
	assert.Equal(t, "http://whisper.local:9000", cfg.Transcription.WhisperURL)
	assert.Equal(t, 15*time.Second, cfg.Transcription.Timeout)
	assert.Equal(t, []string{"drywall", "nails"}, cfg.Vocabulary.Materials)
	assert.Equal(t, "out/materials.csv", cfg.CSV.Path)
	assert.Contains(t, cfg.Sheets.SpreadsheetURL, "abc123")
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MATERIAL_LOGGER_TRANSCRIPTION_CONCURRENCY", "4")
	t.Setenv("MATERIAL_LOGGER_LEDGER_DIR", "/var/lib/materials")

	cfg, err := Load(newViper(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Transcription.Concurrency)
	assert.Equal(t, "/var/lib/materials", cfg.Ledger.Dir)
}

func TestLoad_Secrets(t *testing.T) {
	secrets := map[string]string{
		SecretOpenAIKey:     "sk-test",
		SecretGoogleAccount: `{"type":"service_account"}`,
	}
	cfg, err := Load(newViper(t), secrets)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.Transcription.OpenAIAPIKey)
	assert.Equal(t, `{"type":"service_account"}`, cfg.Sheets.CredentialsJSON)
}

func TestApplySecrets_ConfigWins(t *testing.T) {
	cfg := types.Config{
		Transcription: types.TranscriptionConfig{OpenAIAPIKey: "from-config"},
		Sheets:        types.SheetsConfig{CredentialsFile: "key.json"},
	}
	ApplySecrets(&cfg, map[string]string{
		SecretOpenAIKey:     "from-secrets",
		SecretGoogleAccount: "{}",
	})
	assert.Equal(t, "from-config", cfg.Transcription.OpenAIAPIKey)
	assert.Empty(t, cfg.Sheets.CredentialsJSON)
}

func TestValidate(t *testing.T) {
	valid := func() types.Config {
		cfg, err := Load(newViper(t), nil)
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*types.Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(*types.Config) {},
		},
		{
			name:    "unknown backend",
			mutate:  func(c *types.Config) { c.Transcription.Backends = []string{"sphinx"} },
			wantErr: "transcription.backends[0] must be one of",
		},
		{
			name:    "no backends",
			mutate:  func(c *types.Config) { c.Transcription.Backends = nil },
			wantErr: "transcription.backends must be at least 1",
		},
		{
			name:    "concurrency too high",
			mutate:  func(c *types.Config) { c.Transcription.Concurrency = 64 },
			wantErr: "transcription.concurrency must be at most 16",
		},
		{
			name:    "bad whisper url",
			mutate:  func(c *types.Config) { c.Transcription.WhisperURL = "not a url" },
			wantErr: "transcription.whisper_url must be a valid URL",
		},
		{
			name:    "whisper backend without url",
			mutate:  func(c *types.Config) { c.Transcription.WhisperURL = "" },
			wantErr: "whisper_url is required",
		},
		{
			name:    "bad log format",
			mutate:  func(c *types.Config) { c.Log.Format = "xml" },
			wantErr: "log.format must be one of",
		},
		{
			name:    "retries out of range",
			mutate:  func(c *types.Config) { c.Transcription.MaxRetries = 50 },
			wantErr: "transcription.max_retries must be <= 10",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
