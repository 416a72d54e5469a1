package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ai8future/piicrypt"
)

// RunHash prints the lookup digest of a value under context, after applying
// the named normalizer.
func RunHash(cipher *piicrypt.Cipher, logger *slog.Logger, stdio IOTuple, context, normalizer, value string) error {
	norm, err := parseNormalizer(normalizer)
	if err != nil {
		return err
	}

	input, err := readValue(stdio.Reader, value)
	if err != nil {
		return err
	}

	digest, err := cipher.HashNormalized(input, context, norm)
	if err != nil {
		return fmt.Errorf("failed to hash: %w", err)
	}

	logger.Debug("value hashed", slog.String("context", context), slog.String("normalizer", normalizer))

	fmt.Fprintln(stdio.Writer, digest)
	return nil
}

// RunHashEmail prints the digest to search for when looking up an email.
func RunHashEmail(cipher *piicrypt.Cipher, stdio IOTuple, entity, field, email string) error {
	ctxs, err := parseEmailContexts(entity, field)
	if err != nil {
		return err
	}

	input, err := readValue(stdio.Reader, email)
	if err != nil {
		return err
	}

	canonical, err := piicrypt.CanonicalizeEmail(input)
	if err != nil {
		return err
	}

	digest, err := cipher.Hash(canonical, ctxs.Query)
	if err != nil {
		return fmt.Errorf("failed to hash email: %w", err)
	}

	fmt.Fprintln(stdio.Writer, digest)
	return nil
}

type protectedEmailOutput struct {
	Encrypted  string `json:"encrypted"`
	Hash       string `json:"hash"`
	Normalized string `json:"normalized"`
}

// RunProtectEmail validates and protects an email, printing the stored fields.
// Format is "text" or "json".
func RunProtectEmail(cipher *piicrypt.Cipher, logger *slog.Logger, stdio IOTuple, entity, field, email, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	ctxs, err := parseEmailContexts(entity, field)
	if err != nil {
		return err
	}

	input, err := readValue(stdio.Reader, email)
	if err != nil {
		return err
	}

	protected, err := cipher.ProtectEmailWith(input, ctxs)
	if err != nil {
		return err
	}

	logger.Debug("email protected",
		slog.String("storage_context", ctxs.Storage),
		slog.String("query_context", ctxs.Query),
	)

	if format == "json" {
		return json.NewEncoder(stdio.Writer).Encode(protectedEmailOutput{
			Encrypted:  protected.Encrypted,
			Hash:       protected.Hash,
			Normalized: protected.Normalized,
		})
	}

	fmt.Fprintf(stdio.Writer, "encrypted:  %s\n", protected.Encrypted)
	fmt.Fprintf(stdio.Writer, "hash:       %s\n", protected.Hash)
	fmt.Fprintf(stdio.Writer, "normalized: %s\n", protected.Normalized)
	return nil
}
