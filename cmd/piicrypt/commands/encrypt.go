package commands

import (
	"fmt"
	"log/slog"

	"github.com/ai8future/piicrypt"
)

// RunEncrypt encrypts a value under context and prints the payload.
func RunEncrypt(cipher *piicrypt.Cipher, logger *slog.Logger, stdio IOTuple, context, value string) error {
	plaintext, err := readValue(stdio.Reader, value)
	if err != nil {
		return err
	}

	payload, err := cipher.Encrypt(plaintext, context)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	logger.Debug("value encrypted",
		slog.String("context", context),
		slog.String("algorithm", string(cipher.Algorithm())),
	)

	fmt.Fprintln(stdio.Writer, payload)
	return nil
}

// RunDecrypt decrypts a payload sealed under context and prints the value.
func RunDecrypt(cipher *piicrypt.Cipher, logger *slog.Logger, stdio IOTuple, context, payload string) error {
	sealed, err := readValue(stdio.Reader, payload)
	if err != nil {
		return err
	}

	plaintext, err := cipher.DecryptString(sealed, context)
	if err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}

	logger.Debug("payload decrypted", slog.String("context", context))

	fmt.Fprintln(stdio.Writer, plaintext)
	return nil
}

// RunReseal moves a payload from one context to another and prints the new payload.
func RunReseal(cipher *piicrypt.Cipher, logger *slog.Logger, stdio IOTuple, from, to, payload string) error {
	sealed, err := readValue(stdio.Reader, payload)
	if err != nil {
		return err
	}

	resealed, err := cipher.Reseal(sealed, from, to)
	if err != nil {
		return fmt.Errorf("failed to reseal: %w", err)
	}
	if resealed == nil {
		return fmt.Errorf("payload is empty")
	}

	logger.Debug("payload resealed", slog.String("from", from), slog.String("to", to))

	fmt.Fprintln(stdio.Writer, *resealed)
	return nil
}
