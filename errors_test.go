package piicrypt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrors_Identity(t *testing.T) {
	allErrors := []error{
		ErrConfiguration,
		ErrInvalidArgument,
		ErrMalformedPayload,
		ErrAuthenticationFailed,
		ErrInvalidEmailFormat,
		ErrUnsupportedPredicate,
		ErrCipherClosed,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j {
				require.False(t, errors.Is(err1, err2), "different errors should not be equal: %v and %v", err1, err2)
			}
		}
	}
}

func TestErrors_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"ErrConfiguration", ErrConfiguration, "invalid configuration"},
		{"ErrInvalidArgument", ErrInvalidArgument, "invalid argument"},
		{"ErrMalformedPayload", ErrMalformedPayload, "malformed payload"},
		{"ErrAuthenticationFailed", ErrAuthenticationFailed, "decryption failed"},
		{"ErrInvalidEmailFormat", ErrInvalidEmailFormat, "invalid email format"},
		{"ErrUnsupportedPredicate", ErrUnsupportedPredicate, "unsupported predicate"},
		{"ErrCipherClosed", ErrCipherClosed, "cipher is closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Contains(t, tt.err.Error(), tt.contains)
			require.Contains(t, tt.err.Error(), "piicrypt:")
		})
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading user 42: %w", ErrAuthenticationFailed)
	require.ErrorIs(t, wrapped, ErrAuthenticationFailed)

	err := invalidArgument("in list is empty")
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, "piicrypt: invalid argument: in list is empty", err.Error())
}

func TestEmailFormatError(t *testing.T) {
	err := error(&EmailFormatError{Code: EmailFormatCode, Reason: "must be local-part@domain.tld"})

	require.ErrorIs(t, err, ErrInvalidEmailFormat)
	require.Equal(t, "piicrypt: invalid email format: must be local-part@domain.tld", err.Error())

	var formatErr *EmailFormatError
	require.ErrorAs(t, fmt.Errorf("signup: %w", err), &formatErr)
	require.Equal(t, "invalid_email_format", formatErr.Code)
}
