package piicrypt

import (
	"sync"

	"github.com/allisson/go-env"
)

// Environment variables read by Default.
const (
	EnvBindContext = "PII_BIND_CONTEXT"
	EnvAlgorithm   = "PII_CIPHER"
)

var (
	defaultCipher *Cipher
	defaultErr    error
	defaultOnce   sync.Once
)

// Default returns the process-wide Cipher, built from the environment on
// first use:
//
//	PII_ENCRYPTION_KEY  base64 32-byte key (required)
//	PII_HASH_KEY        base64 32-byte key, distinct (required)
//	PII_BIND_CONTEXT    bind contexts as AEAD associated data (default false)
//	PII_CIPHER          aes-gcm | chacha20-poly1305 (default aes-gcm)
//
// A configuration error is sticky: every call returns the same error and the
// process should abort rather than run without encryption.
func Default() (*Cipher, error) {
	defaultOnce.Do(func() {
		defaultCipher, defaultErr = NewFromEnv()
	})
	return defaultCipher, defaultErr
}

// NewFromEnv builds a Cipher from the environment variables documented on Default.
// Extra options are applied after the environment ones.
func NewFromEnv(opts ...Option) (*Cipher, error) {
	alg, err := ParseAlgorithm(env.GetString(EnvAlgorithm, string(AESGCM)))
	if err != nil {
		return nil, err
	}

	envOpts := []Option{WithAlgorithm(alg)}
	if env.GetBool(EnvBindContext, false) {
		envOpts = append(envOpts, WithContextBinding())
	}

	return NewWithProvider(NewEnvKeyProvider(), append(envOpts, opts...)...)
}
