package types

import "time"

// HTTPConfig holds shared HTTP settings used by collaborators that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// MaxRetries bounds retries on 429/503 responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0,lte=10"`
}

// LogConfig selects diagnostic log verbosity and encoding.
type LogConfig struct {
	Debug  bool   `json:"debug" yaml:"debug" mapstructure:"debug"`
	Quiet  bool   `json:"quiet" yaml:"quiet" mapstructure:"quiet"`
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=text json"`
}

// VocabularyConfig externalizes the material and unit lists. When File is
// set it wins; otherwise non-empty inline lists replace the built-in ones.
type VocabularyConfig struct {
	File      string   `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
	Materials []string `json:"materials,omitempty" yaml:"materials,omitempty" mapstructure:"materials"`
	Units     []string `json:"units,omitempty" yaml:"units,omitempty" mapstructure:"units"`
}

// Transcription backend names accepted in TranscriptionConfig.Backends.
const (
	BackendWhisper   = "whisper"
	BackendOpenAI    = "openai"
	BackendContainer = "container"
)

// TranscriptionConfig holds settings for the transcription collaborator.
type TranscriptionConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Backends lists backends in preference order; later ones are fallbacks.
	Backends []string `json:"backends" yaml:"backends" mapstructure:"backends" validate:"min=1,dive,oneof=whisper openai container"`

	// Language is the spoken language hint (default "en").
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// WhisperURL is the base URL of a whisper.cpp server.
	WhisperURL string `json:"whisper_url" yaml:"whisper_url" mapstructure:"whisper_url" validate:"omitempty,url"`

	// OpenAIModel is the OpenAI transcription model (default "whisper-1").
	OpenAIModel string `json:"openai_model" yaml:"openai_model" mapstructure:"openai_model"`

	// OpenAIBaseURL overrides the OpenAI API endpoint.
	OpenAIBaseURL string `json:"openai_base_url,omitempty" yaml:"openai_base_url,omitempty" mapstructure:"openai_base_url" validate:"omitempty,url"`

	// OpenAIAPIKey authenticates to OpenAI. Usually loaded from secrets.
	OpenAIAPIKey string `json:"-" yaml:"-" mapstructure:"openai_api_key"`

	// ContainerImage is the whisper image used by the container backend.
	ContainerImage string `json:"container_image" yaml:"container_image" mapstructure:"container_image"`

	// TranscriptsDir receives transcript files from batch transcription.
	TranscriptsDir string `json:"transcripts_dir" yaml:"transcripts_dir" mapstructure:"transcripts_dir"`

	// Concurrency bounds simultaneous transcriptions in batch mode.
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency" validate:"min=1,max=16"`
}

// CorrectionConfig controls phonetic correction of transcripts.
type CorrectionConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// PhoneticThreshold is the minimum Jaro-Winkler score for a phonetic match.
	PhoneticThreshold float64 `json:"phonetic_threshold" yaml:"phonetic_threshold" mapstructure:"phonetic_threshold" validate:"gte=0,lte=1"`

	// FuzzyThreshold is the minimum score when no phonetic code overlaps.
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold" validate:"gte=0,lte=1"`
}

// LedgerConfig holds settings for the local SQLite ledger.
type LedgerConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Dir is the directory holding ledger.db and exports.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default listing limit (default 100).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"gte=0"`
}

// CSVConfig enables the CSV file sink when Path is set.
type CSVConfig struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// SheetsConfig enables the Google Sheets sink when SpreadsheetURL is set.
type SheetsConfig struct {
	SpreadsheetURL string `json:"spreadsheet_url,omitempty" yaml:"spreadsheet_url,omitempty" mapstructure:"spreadsheet_url" validate:"omitempty,url"`

	// Sheet is the worksheet title; empty targets the first sheet.
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty" mapstructure:"sheet"`

	// CredentialsFile is a service-account JSON key file.
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty" mapstructure:"credentials_file"`

	// CredentialsJSON is the key itself, usually loaded from secrets.
	CredentialsJSON string `json:"-" yaml:"-" mapstructure:"credentials_json"`
}

// Config groups all settings for the CLI.
type Config struct {
	Log           LogConfig           `json:"log" yaml:"log" mapstructure:"log"`
	Vocabulary    VocabularyConfig    `json:"vocabulary" yaml:"vocabulary" mapstructure:"vocabulary"`
	Transcription TranscriptionConfig `json:"transcription" yaml:"transcription" mapstructure:"transcription"`
	Correction    CorrectionConfig    `json:"correction" yaml:"correction" mapstructure:"correction"`
	Ledger        LedgerConfig        `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
	CSV           CSVConfig           `json:"csv" yaml:"csv" mapstructure:"csv"`
	Sheets        SheetsConfig        `json:"sheets" yaml:"sheets" mapstructure:"sheets"`
}
