package piicrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm identifies the AEAD construction. Both use a 256-bit key,
// a 12-byte nonce and a 16-byte tag, so the payload format is identical.
type Algorithm string

const (
	// AESGCM is AES-256-GCM. Default.
	AESGCM Algorithm = "aes-gcm"
	// ChaCha20Poly1305 is the IETF ChaCha20-Poly1305 construction.
	ChaCha20Poly1305 Algorithm = "chacha20-poly1305"
)

// Cipher provides encryption, decryption and deterministic hashing of PII fields.
// It holds only immutable key material and is safe for concurrent use,
// including Close.
type Cipher struct {
	aead   cipher.AEAD
	keys   *KeyMaterial
	config *config

	mu     sync.RWMutex // guards closed and the key bytes against wipe
	closed bool
}

// config holds cipher configuration options.
type config struct {
	encryptionKey []byte
	hashKey       []byte
	algorithm     Algorithm
	bindContext   bool
	logger        *slog.Logger
	emailContexts EmailContexts
}

// defaultConfig returns the default configuration.
func defaultConfig() *config {
	return &config{
		algorithm:     AESGCM,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		emailContexts: DefaultEmailContexts,
	}
}

// New creates a new Cipher with the given options.
// Keys must be provided via WithKeys or WithKeyMaterial.
//
// Example:
//
//	cipher, err := piicrypt.New(
//	    piicrypt.WithKeys(encryptionKey, hashKey),
//	)
func New(opts ...Option) (*Cipher, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	// Raw key copies are not needed once KeyMaterial holds them.
	defer func() {
		zero(cfg.encryptionKey)
		zero(cfg.hashKey)
		cfg.encryptionKey = nil
		cfg.hashKey = nil
	}()

	if cfg.encryptionKey == nil || cfg.hashKey == nil {
		return nil, fmt.Errorf("%w: encryption and hash keys are required", ErrConfiguration)
	}

	keys, err := NewKeyMaterial(cfg.encryptionKey, cfg.hashKey)
	if err != nil {
		return nil, err
	}

	aead, err := newAEAD(cfg.algorithm, keys.encryption[:])
	if err != nil {
		keys.wipe()
		return nil, err
	}

	if err := cfg.emailContexts.validate(); err != nil {
		keys.wipe()
		return nil, err
	}

	return &Cipher{
		aead:   aead,
		keys:   keys,
		config: cfg,
	}, nil
}

// newAEAD builds the AEAD for the selected algorithm.
func newAEAD(alg Algorithm, key []byte) (cipher.AEAD, error) {
	switch alg {
	case AESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		return cipher.NewGCM(block)
	case ChaCha20Poly1305:
		return chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrConfiguration, alg)
	}
}

// ParseAlgorithm maps a configuration string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", AESGCM:
		return AESGCM, nil
	case ChaCha20Poly1305:
		return ChaCha20Poly1305, nil
	default:
		return "", fmt.Errorf("%w: unsupported algorithm %q", ErrConfiguration, s)
	}
}

// Encrypt seals the trimmed plaintext under context and returns
// base64(nonce || tag || ciphertext). Every call uses a fresh random nonce,
// so encrypting the same value twice yields different payloads.
//
// Returns ErrInvalidArgument if plaintext trims to empty, is not valid UTF-8,
// or if context is blank.
func (c *Cipher) Encrypt(plaintext, context string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return "", ErrCipherClosed
	}
	if err := checkContext(context); err != nil {
		return "", err
	}
	if !utf8.ValidString(plaintext) {
		return "", invalidArgument("plaintext is not valid UTF-8")
	}
	trimmed := strings.TrimSpace(plaintext)
	if trimmed == "" {
		return "", invalidArgument("plaintext is empty")
	}

	nonce, err := generateNonce()
	if err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nil, nonce, []byte(trimmed), c.associatedData(context))
	return formatPayload(nonce, sealed), nil
}

// Decrypt opens a payload produced by Encrypt under the same context.
// Returns nil, nil if payload is blank (optional field with no value).
//
// Returns ErrMalformedPayload if the payload cannot contain a ciphertext,
// and ErrAuthenticationFailed if the tag does not verify.
func (c *Cipher) Decrypt(payload, context string) (*string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrCipherClosed
	}
	if strings.TrimSpace(payload) == "" {
		return nil, nil
	}
	if err := checkContext(context); err != nil {
		return nil, err
	}

	nonce, sealed, err := parsePayload(payload)
	if err != nil {
		return nil, err
	}

	plaintext, err := c.aead.Open(nil, nonce, sealed, c.associatedData(context))
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	s := string(plaintext)
	return &s, nil
}

// DecryptString is Decrypt for required fields: a blank payload is an error.
func (c *Cipher) DecryptString(payload, context string) (string, error) {
	s, err := c.Decrypt(payload, context)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", invalidArgument("payload is empty")
	}
	return *s, nil
}

// associatedData returns the context as AEAD associated data when binding is enabled.
func (c *Cipher) associatedData(context string) []byte {
	if !c.config.bindContext {
		return nil
	}
	return []byte(context)
}

// ContextBound reports whether payloads are bound to their context.
func (c *Cipher) ContextBound() bool {
	return c.config.bindContext
}

// Algorithm returns the AEAD construction in use.
func (c *Cipher) Algorithm() Algorithm {
	return c.config.algorithm
}

// Close zeroes the raw encryption and hash keys held by the Cipher. The
// expanded key schedule inside the AEAD is not reachable and is left to
// the garbage collector.
//
// Close waits for in-flight operations; after it returns every operation
// returns ErrCipherClosed. Calling Close more than once is a no-op.
func (c *Cipher) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.keys.wipe()
}

// checkContext rejects blank contexts.
func checkContext(context string) error {
	if strings.TrimSpace(context) == "" {
		return invalidArgument("context is required")
	}
	return nil
}

// generateNonce generates a cryptographically secure random 12-byte nonce.
func generateNonce() ([]byte, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("piicrypt: failed to generate nonce: %w", err)
	}
	return nonce, nil
}
