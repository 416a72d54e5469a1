package piicrypt

import (
	"crypto/sha512"
	"io"

	"golang.org/x/crypto/hkdf"
)

// infoHashContext prefixes the HKDF info string for per-context hash keys.
const infoHashContext = "piicrypt-hash-context:"

// contextKeySize is the size of a derived per-context HMAC key (SHA-512 block half).
const contextKeySize = 64

// deriveContextKey derives the HMAC key for one context from the hash key
// using HKDF-SHA512:
//
//	contextKey = HKDF(hashKey, info="piicrypt-hash-context:" + context)
//
// Distinct contexts yield independent keys, which gives domain separation
// without prefixing the hashed value.
func deriveContextKey(hashKey []byte, context string) ([]byte, error) {
	out := make([]byte, contextKeySize)
	reader := hkdf.New(sha512.New, hashKey, nil, []byte(infoHashContext+context))
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
