package piicrypt

// KeyProvider is an interface for key retrieval.
// The two keys are resolved independently and are never derived from each other.
type KeyProvider interface {
	// EncryptionKey returns the 32-byte AEAD key.
	EncryptionKey() ([]byte, error)

	// HashKey returns the 32-byte key used for deterministic hashing.
	HashKey() ([]byte, error)
}

// NewWithProvider creates a new Cipher using a KeyProvider.
// Keys are fetched once at initialization and held for the Cipher's lifetime.
func NewWithProvider(provider KeyProvider, opts ...Option) (*Cipher, error) {
	encKey, err := provider.EncryptionKey()
	if err != nil {
		return nil, err
	}
	defer zero(encKey)

	hashKey, err := provider.HashKey()
	if err != nil {
		return nil, err
	}
	defer zero(hashKey)

	return New(append([]Option{WithKeys(encKey, hashKey)}, opts...)...)
}

// EnvKeyProvider reads base64 keys from environment variables.
type EnvKeyProvider struct {
	EncryptionVar string
	HashVar       string
}

// NewEnvKeyProvider returns a provider reading PII_ENCRYPTION_KEY and PII_HASH_KEY.
func NewEnvKeyProvider() *EnvKeyProvider {
	return &EnvKeyProvider{
		EncryptionVar: EnvEncryptionKey,
		HashVar:       EnvHashKey,
	}
}

// EncryptionKey implements KeyProvider.
func (p *EnvKeyProvider) EncryptionKey() ([]byte, error) {
	return LoadKey(p.EncryptionVar, KeySize)
}

// HashKey implements KeyProvider.
func (p *EnvKeyProvider) HashKey() ([]byte, error) {
	return LoadKey(p.HashVar, KeySize)
}

// StaticKeyProvider is a simple in-memory implementation of KeyProvider.
// Useful for testing or tooling that already holds the keys.
type StaticKeyProvider struct {
	encryption []byte
	hash       []byte
}

// NewStaticKeyProvider creates a StaticKeyProvider with the given keys.
// Keys are copied to prevent external modification.
func NewStaticKeyProvider(encryptionKey, hashKey []byte) *StaticKeyProvider {
	return &StaticKeyProvider{
		encryption: cloneBytes(encryptionKey),
		hash:       cloneBytes(hashKey),
	}
}

// EncryptionKey implements KeyProvider.
func (p *StaticKeyProvider) EncryptionKey() ([]byte, error) {
	if p.encryption == nil {
		return nil, ErrConfiguration
	}
	return cloneBytes(p.encryption), nil
}

// HashKey implements KeyProvider.
func (p *StaticKeyProvider) HashKey() ([]byte, error) {
	if p.hash == nil {
		return nil, ErrConfiguration
	}
	return cloneBytes(p.hash), nil
}

// Close zeros out all key material from memory.
// After calling Close, the provider returns ErrConfiguration.
func (p *StaticKeyProvider) Close() {
	zero(p.encryption)
	zero(p.hash)
	p.encryption = nil
	p.hash = nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
