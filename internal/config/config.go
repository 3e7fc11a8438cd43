// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the CLI configuration from viper (config file,
// environment, bound flags) and validates it.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/material-logger/pkg/types"
)

// EnvPrefix is the environment variable prefix, e.g.
// MATERIAL_LOGGER_TRANSCRIPTION_WHISPER_URL.
const EnvPrefix = "MATERIAL_LOGGER"

// Secret key names read from the secrets directory.
const (
	SecretOpenAIKey      = "openai-api-key"
	SecretGoogleAccount  = "google-service-account"
	defaultContainerImg  = "whisper-cli:latest"
	defaultWhisperURL    = "http://localhost:8080"
	defaultOpenAIModel   = "whisper-1"
	defaultLedgerResults = 100
)

// SetDefaults registers every key with its default so that AutomaticEnv
// can override any of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.debug", false)
	v.SetDefault("log.quiet", false)
	v.SetDefault("log.format", "text")

	v.SetDefault("vocabulary.file", "")
	v.SetDefault("vocabulary.materials", []string{})
	v.SetDefault("vocabulary.units", []string{})

	v.SetDefault("transcription.timeout", 60*time.Second)
	v.SetDefault("transcription.max_retries", 3)
	v.SetDefault("transcription.backends", []string{types.BackendWhisper})
	v.SetDefault("transcription.language", "en")
	v.SetDefault("transcription.whisper_url", defaultWhisperURL)
	v.SetDefault("transcription.openai_model", defaultOpenAIModel)
	v.SetDefault("transcription.openai_base_url", "")
	v.SetDefault("transcription.openai_api_key", "")
	v.SetDefault("transcription.container_image", defaultContainerImg)
	v.SetDefault("transcription.transcripts_dir", "transcripts")
	v.SetDefault("transcription.concurrency", 2)

	v.SetDefault("correction.enabled", false)
	v.SetDefault("correction.phonetic_threshold", 0.85)
	v.SetDefault("correction.fuzzy_threshold", 0.95)

	v.SetDefault("ledger.enabled", true)
	v.SetDefault("ledger.dir", "ledger")
	v.SetDefault("ledger.max_results", defaultLedgerResults)

	v.SetDefault("csv.path", "")

	v.SetDefault("sheets.spreadsheet_url", "")
	v.SetDefault("sheets.sheet", "")
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.credentials_json", "")
}

// BindEnv enables MATERIAL_LOGGER_* overrides for every registered key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals v into a Config, fills credentials from secrets where the
// configuration leaves them empty, and validates the result.
func Load(v *viper.Viper, secrets map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	ApplySecrets(&cfg, secrets)
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// ApplySecrets copies secret values into empty credential fields.
func ApplySecrets(cfg *types.Config, secrets map[string]string) {
	if cfg.Transcription.OpenAIAPIKey == "" {
		cfg.Transcription.OpenAIAPIKey = secrets[SecretOpenAIKey]
	}
	if cfg.Sheets.CredentialsJSON == "" && cfg.Sheets.CredentialsFile == "" {
		cfg.Sheets.CredentialsJSON = secrets[SecretGoogleAccount]
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and cross-field requirements. All
// failures are reported together.
func Validate(cfg types.Config) error {
	var errs []error

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating configuration: %w", err)
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s %s", fieldPath(fe), describe(fe)))
		}
	}

	for _, b := range cfg.Transcription.Backends {
		switch b {
		case types.BackendWhisper:
			if cfg.Transcription.WhisperURL == "" {
				errs = append(errs, errors.New("transcription.whisper_url is required for the whisper backend"))
			}
		case types.BackendContainer:
			if cfg.Transcription.ContainerImage == "" {
				errs = append(errs, errors.New("transcription.container_image is required for the container backend"))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// fieldPath turns "Config.Transcription.Concurrency" into
// "transcription.concurrency".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	out := parts[:0]
	for _, p := range parts {
		if p == "HTTPConfig" {
			continue
		}
		out = append(out, toSnake(p))
	}
	return strings.Join(out, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed validation %q", fe.Tag())
	}
}
