package commands

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/ai8future/piicrypt"
)

// RunKeygen generates a fresh pair of independent 32-byte keys and prints them
// as environment assignments. Key material is zeroed from memory after encoding.
//
// Output format:
//   - PII_ENCRYPTION_KEY="<base64>"
//   - PII_HASH_KEY="<base64>"
func RunKeygen(w io.Writer) error {
	encKey := make([]byte, piicrypt.KeySize)
	hashKey := make([]byte, piicrypt.KeySize)
	defer func() {
		clear(encKey)
		clear(hashKey)
	}()

	for {
		if _, err := rand.Read(encKey); err != nil {
			return fmt.Errorf("failed to generate encryption key: %w", err)
		}
		if _, err := rand.Read(hashKey); err != nil {
			return fmt.Errorf("failed to generate hash key: %w", err)
		}
		if !bytes.Equal(encKey, hashKey) {
			break
		}
	}

	fmt.Fprintln(w, "# PII key material")
	fmt.Fprintln(w, "# Copy these environment variables to your .env file or secrets manager")
	fmt.Fprintln(w, "# Rotating either key makes existing payloads or lookup hashes unreadable")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s=\"%s\"\n", piicrypt.EnvEncryptionKey, base64.StdEncoding.EncodeToString(encKey))
	fmt.Fprintf(w, "%s=\"%s\"\n", piicrypt.EnvHashKey, base64.StdEncoding.EncodeToString(hashKey))

	return nil
}
