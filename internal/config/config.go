// Package config provides CLI configuration through environment variables.
package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"

	"github.com/ai8future/piicrypt"
)

// Config holds the piicrypt tool configuration.
type Config struct {
	// LogLevel is the logging level ("debug", "info", "warn", "error").
	LogLevel string

	// EncryptionKeyVar names the variable holding the base64 encryption key.
	EncryptionKeyVar string
	// HashKeyVar names the variable holding the base64 hash key.
	HashKeyVar string

	// Algorithm is the AEAD construction ("aes-gcm" or "chacha20-poly1305").
	Algorithm string
	// BindContext binds contexts into payloads as associated data.
	BindContext bool
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		EncryptionKeyVar: env.GetString("PII_ENCRYPTION_KEY_VAR", piicrypt.EnvEncryptionKey),
		HashKeyVar:       env.GetString("PII_HASH_KEY_VAR", piicrypt.EnvHashKey),

		Algorithm:   env.GetString(piicrypt.EnvAlgorithm, string(piicrypt.AESGCM)),
		BindContext: env.GetBool(piicrypt.EnvBindContext, false),
	}
}

// Logger returns a JSON logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewCipher builds a cipher from the configured key variables and settings.
func (c *Config) NewCipher(logger *slog.Logger) (*piicrypt.Cipher, error) {
	alg, err := piicrypt.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return nil, err
	}

	opts := []piicrypt.Option{
		piicrypt.WithAlgorithm(alg),
		piicrypt.WithLogger(logger),
	}
	if c.BindContext {
		opts = append(opts, piicrypt.WithContextBinding())
	}

	provider := &piicrypt.EnvKeyProvider{
		EncryptionVar: c.EncryptionKeyVar,
		HashVar:       c.HashKeyVar,
	}
	return piicrypt.NewWithProvider(provider, opts...)
}

// loadDotEnv searches for a .env file from the current directory up to the
// root directory and loads the first one found. Variables already set in the
// environment win.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
