package piicrypt

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/allisson/go-env"
)

// Environment variables holding the key material.
const (
	EnvEncryptionKey = "PII_ENCRYPTION_KEY"
	EnvHashKey       = "PII_HASH_KEY"
)

// KeySize is the required length of both the encryption and the hash key.
const KeySize = 32

// LoadKey reads the named configuration value, base64 decodes it and checks
// that it decodes to exactly expectedLength bytes.
//
// Standard (padded) and raw (unpadded) base64 are accepted. The returned error
// wraps ErrConfiguration and names the variable, never its value.
func LoadKey(name string, expectedLength int) ([]byte, error) {
	raw := strings.TrimSpace(env.GetString(name, ""))
	if raw == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrConfiguration, name)
	}
	return decodeKey(name, raw, expectedLength)
}

// decodeKey decodes a base64 key and validates its length.
func decodeKey(name, encoded string, expectedLength int) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		key, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64", ErrConfiguration, name)
	}
	if len(key) != expectedLength {
		zero(key)
		return nil, fmt.Errorf("%w: %s must decode to %d bytes, got %d",
			ErrConfiguration, name, expectedLength, len(key))
	}
	return key, nil
}

// KeyMaterial holds the two independent process keys.
// It is never logged or serialized; String and GoString are redacted.
type KeyMaterial struct {
	encryption [KeySize]byte
	hash       [KeySize]byte
}

// NewKeyMaterial validates and copies an encryption key and a hash key.
// Both must be KeySize bytes and must differ from each other.
func NewKeyMaterial(encryptionKey, hashKey []byte) (*KeyMaterial, error) {
	if len(encryptionKey) != KeySize {
		return nil, fmt.Errorf("%w: encryption key must be %d bytes, got %d",
			ErrConfiguration, KeySize, len(encryptionKey))
	}
	if len(hashKey) != KeySize {
		return nil, fmt.Errorf("%w: hash key must be %d bytes, got %d",
			ErrConfiguration, KeySize, len(hashKey))
	}
	if subtle.ConstantTimeCompare(encryptionKey, hashKey) == 1 {
		return nil, fmt.Errorf("%w: hash key must differ from encryption key", ErrConfiguration)
	}

	km := &KeyMaterial{}
	copy(km.encryption[:], encryptionKey)
	copy(km.hash[:], hashKey)
	return km, nil
}

// LoadKeyMaterial loads PII_ENCRYPTION_KEY and PII_HASH_KEY independently.
func LoadKeyMaterial() (*KeyMaterial, error) {
	return loadKeyMaterialFrom(EnvEncryptionKey, EnvHashKey)
}

func loadKeyMaterialFrom(encryptionVar, hashVar string) (*KeyMaterial, error) {
	encKey, err := LoadKey(encryptionVar, KeySize)
	if err != nil {
		return nil, err
	}
	defer zero(encKey)

	hashKey, err := LoadKey(hashVar, KeySize)
	if err != nil {
		return nil, err
	}
	defer zero(hashKey)

	return NewKeyMaterial(encKey, hashKey)
}

// String implements fmt.Stringer without revealing key bytes.
func (km *KeyMaterial) String() string {
	return "piicrypt.KeyMaterial{REDACTED}"
}

// GoString implements fmt.GoStringer without revealing key bytes.
func (km *KeyMaterial) GoString() string {
	return km.String()
}

// wipe zeroes both keys.
func (km *KeyMaterial) wipe() {
	zero(km.encryption[:])
	zero(km.hash[:])
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
