package piicrypt

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates missing or invalid key material.
	// It is fatal: there is no unencrypted fallback mode.
	ErrConfiguration = errors.New("piicrypt: invalid configuration")

	// ErrInvalidArgument indicates a blank, non-UTF-8 or structurally wrong input
	// (e.g. an empty IN list). It is a caller bug and is never retried.
	ErrInvalidArgument = errors.New("piicrypt: invalid argument")

	// ErrMalformedPayload indicates a payload that is not valid base64 or is too
	// short to contain nonce, tag and ciphertext.
	ErrMalformedPayload = errors.New("piicrypt: malformed payload")

	// ErrAuthenticationFailed indicates the AEAD tag did not verify.
	// Wrong key, tampered data and context mismatch are deliberately not distinguished.
	ErrAuthenticationFailed = errors.New("piicrypt: decryption failed")

	// ErrInvalidEmailFormat indicates an email address that is not syntactically valid.
	// Returned wrapped in an *EmailFormatError.
	ErrInvalidEmailFormat = errors.New("piicrypt: invalid email format")

	// ErrUnsupportedPredicate indicates a query shape that cannot be answered
	// against a one-way hashed column (range, prefix, like, ne, ...).
	ErrUnsupportedPredicate = errors.New("piicrypt: unsupported predicate")

	// ErrCipherClosed indicates the cipher was used after Close() was called.
	ErrCipherClosed = errors.New("piicrypt: cipher is closed")
)

// EmailFormatCode is the error code carried by EmailFormatError so that
// callers can map it to a user-facing validation message.
const EmailFormatCode = "invalid_email_format"

// EmailFormatError reports why an email address failed validation.
type EmailFormatError struct {
	Code   string
	Reason string
}

func (e *EmailFormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidEmailFormat.Error(), e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidEmailFormat) match.
func (e *EmailFormatError) Unwrap() error {
	return ErrInvalidEmailFormat
}

// invalidArgument wraps ErrInvalidArgument with a short reason.
func invalidArgument(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, reason)
}
