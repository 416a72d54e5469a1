package piicrypt

import (
	"errors"
	"log/slog"
	"strings"
)

// ReadPolicy decides what a codec does when a stored payload fails to decrypt.
type ReadPolicy int

const (
	// StrictReads returns ErrMalformedPayload / ErrAuthenticationFailed to the caller.
	StrictReads ReadPolicy = iota
	// TolerantReads logs the failure and decodes the field as NULL.
	// Use only for display-only fields where a missing value beats a failed request.
	TolerantReads
)

func (p ReadPolicy) String() string {
	switch p {
	case StrictReads:
		return "strict"
	case TolerantReads:
		return "tolerant"
	default:
		return "unknown"
	}
}

// FieldCodec encrypts one logical column at the row mapping boundary.
// NULL (nil) values stay NULL in both directions.
type FieldCodec struct {
	cipher  *Cipher
	context string
	policy  ReadPolicy
}

// SealedValue holds the two stored columns of a searchable field.
type SealedValue struct {
	Ciphertext string // Encrypted column
	Hash       string // Lookup digest column
}

// NewFieldCodec returns a codec for the column identified by context,
// e.g. "user:firstName".
func (c *Cipher) NewFieldCodec(context string, policy ReadPolicy) *FieldCodec {
	return &FieldCodec{cipher: c, context: context, policy: policy}
}

// Context returns the context the codec encrypts under.
func (f *FieldCodec) Context() string {
	return f.context
}

// Encode encrypts value for storage. nil and blank values encode to nil.
func (f *FieldCodec) Encode(value *string) (*string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	payload, err := f.cipher.Encrypt(*value, f.context)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// Decode decrypts a stored payload. nil and blank payloads decode to nil.
//
// Under TolerantReads, a payload that is malformed or fails authentication is
// logged and decoded as nil; every other error is returned.
func (f *FieldCodec) Decode(payload *string) (*string, error) {
	if payload == nil {
		return nil, nil
	}
	value, err := f.cipher.Decrypt(*payload, f.context)
	if err == nil {
		return value, nil
	}
	if f.policy == TolerantReads && isUnreadable(err) {
		f.cipher.config.logger.Warn("failed to decrypt field, reading as null",
			slog.String("context", f.context),
			slog.Any("error", err),
		)
		return nil, nil
	}
	return nil, err
}

func isUnreadable(err error) bool {
	return errors.Is(err, ErrMalformedPayload) || errors.Is(err, ErrAuthenticationFailed)
}

// IndexedFieldCodec encrypts a column and maintains its lookup digest.
type IndexedFieldCodec struct {
	*FieldCodec
	queryContext string
	normalize    Normalizer
}

// NewIndexedFieldCodec returns a codec for a searchable column. Digests are
// computed over norm(value) under QueryContext(context).
func (c *Cipher) NewIndexedFieldCodec(context string, norm Normalizer, policy ReadPolicy) *IndexedFieldCodec {
	if norm == nil {
		norm = NormalizeNone
	}
	return &IndexedFieldCodec{
		FieldCodec:   c.NewFieldCodec(context, policy),
		queryContext: QueryContext(context),
		normalize:    norm,
	}
}

// Encode encrypts value as entered and hashes its normalized form.
// Returns nil for nil or blank values.
func (f *IndexedFieldCodec) Encode(value *string) (*SealedValue, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	ciphertext, err := f.cipher.Encrypt(*value, f.context)
	if err != nil {
		return nil, err
	}
	digest, err := f.cipher.Hash(f.normalize(*value), f.queryContext)
	if err != nil {
		return nil, err
	}
	return &SealedValue{Ciphertext: ciphertext, Hash: digest}, nil
}

// HashedField describes this codec's lookup column for the rewriter.
func (f *IndexedFieldCodec) HashedField(column string) HashedField {
	return HashedField{Column: column, QueryContext: f.queryContext, Normalize: f.normalize}
}

// EmailFieldCodec protects an email column with ProtectEmailWith.
type EmailFieldCodec struct {
	*FieldCodec
	contexts EmailContexts
}

// NewEmailFieldCodec returns a codec for an email column protected under ctxs.
func (c *Cipher) NewEmailFieldCodec(ctxs EmailContexts, policy ReadPolicy) *EmailFieldCodec {
	return &EmailFieldCodec{
		FieldCodec: c.NewFieldCodec(ctxs.Storage, policy),
		contexts:   ctxs,
	}
}

// Encode validates and protects email. Returns nil for nil or blank values.
func (f *EmailFieldCodec) Encode(email *string) (*ProtectedEmail, error) {
	if email == nil || strings.TrimSpace(*email) == "" {
		return nil, nil
	}
	return f.cipher.ProtectEmailWith(*email, f.contexts)
}

// HashedField describes this codec's lookup column for the rewriter.
func (f *EmailFieldCodec) HashedField(column string) HashedField {
	return EmailField(column, f.contexts)
}
