// Package config loads server configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration. A .env file is loaded by the
// entrypoint before parsing.
type Config struct {
	Port int `env:"PORT" envDefault:"5000"`

	// Voice-cloning provider
	ElevenLabsAPIKey string `env:"ELEVENLABS_API_KEY,required,notEmpty"`

	// External encoder; empty means probe common install paths
	FFmpegPath string `env:"FFMPEG_PATH"`

	// Feedback relay; empty disables forwarding
	GoogleSheetsScriptURL string `env:"GOOGLE_SHEETS_SCRIPT_URL"`

	// Prebuilt client bundle
	StaticDir string `env:"STATIC_DIR" envDefault:"dist/public"`

	// Conversion pipeline
	TempDir        string `env:"CONVERT_TEMP_DIR"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"` // 10MB

	// Conversion rate limit; protects the paid provider account
	ConvertRate  float64 `env:"CONVERT_RATE" envDefault:"0.5"` // requests per second
	ConvertBurst int     `env:"CONVERT_BURST" envDefault:"3"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
