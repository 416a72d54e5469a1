package piicrypt

import "log/slog"

// Option is a functional option for configuring a Cipher.
type Option func(*config)

// WithKeys registers the encryption key and the hash key.
// Both must be exactly 32 bytes and must differ.
// The keys are copied internally; the caller may zero the originals after calling New().
func WithKeys(encryptionKey, hashKey []byte) Option {
	return func(c *config) {
		c.encryptionKey = cloneBytes(encryptionKey)
		c.hashKey = cloneBytes(hashKey)
	}
}

// WithKeyMaterial registers already validated key material.
func WithKeyMaterial(km *KeyMaterial) Option {
	return func(c *config) {
		c.encryptionKey = cloneBytes(km.encryption[:])
		c.hashKey = cloneBytes(km.hash[:])
	}
}

// WithAlgorithm selects the AEAD construction. Default is AESGCM.
func WithAlgorithm(alg Algorithm) Option {
	return func(c *config) {
		c.algorithm = alg
	}
}

// WithContextBinding binds the context string into every payload as AEAD
// associated data. A payload then only decrypts under the exact context it
// was sealed with.
//
// Payloads written without binding do not decrypt with binding enabled and
// vice versa; use Reseal to migrate a column.
func WithContextBinding() Option {
	return func(c *config) {
		c.bindContext = true
	}
}

// WithLogger sets the logger used by tolerant reads. Default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEmailContexts overrides the contexts used by ProtectEmail.
// Default is "user:email" / "user:email-query".
func WithEmailContexts(ctxs EmailContexts) Option {
	return func(c *config) {
		c.emailContexts = ctxs
	}
}
