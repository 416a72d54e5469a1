package piicrypt

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// HashSize is the length of a hex-encoded digest (512 bits).
const HashSize = 2 * sha512.Size

// Hasher computes deterministic lookup digests. *Cipher implements it.
type Hasher interface {
	Hash(value, context string) (string, error)
}

// Hash computes a deterministic keyed digest of the trimmed value under context.
// The result is a 128-character lowercase hex string.
//
// The digest is deterministic: same value + same context + same key = same digest.
// Different contexts produce unrelated digests for the same value.
//
// Returns ErrInvalidArgument if value trims to empty, is not valid UTF-8,
// or if context is blank.
func (c *Cipher) Hash(value, context string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return "", ErrCipherClosed
	}
	if err := checkContext(context); err != nil {
		return "", err
	}
	if !utf8.ValidString(value) {
		return "", invalidArgument("value is not valid UTF-8")
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", invalidArgument("value is empty")
	}

	key, err := deriveContextKey(c.keys.hash[:], context)
	if err != nil {
		return "", err
	}
	defer zero(key)

	return computeHMAC(key, []byte(trimmed)), nil
}

// HashNormalized normalizes value before hashing it.
// Use the SAME normalizer on both write and search.
func (c *Cipher) HashNormalized(value, context string, norm Normalizer) (string, error) {
	return c.Hash(norm(value), context)
}

// HashAll hashes each value under context, preserving order.
func (c *Cipher) HashAll(values []string, context string) ([]string, error) {
	digests := make([]string, 0, len(values))
	for _, v := range values {
		d, err := c.Hash(v, context)
		if err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}
	return digests, nil
}

// IsDigest reports whether s has the shape of a digest produced by Hash.
func IsDigest(s string) bool {
	if len(s) != HashSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f')) {
			return false
		}
	}
	return true
}

// computeHMAC computes hex(HMAC-SHA512(key, data)).
func computeHMAC(key, data []byte) string {
	h := hmac.New(sha512.New, key)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
