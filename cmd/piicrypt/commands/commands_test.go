package commands

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ai8future/piicrypt"
)

func newTestCipher(t *testing.T) *piicrypt.Cipher {
	t.Helper()
	cipher, err := piicrypt.New(piicrypt.WithKeys(
		bytes.Repeat([]byte{1}, piicrypt.KeySize),
		bytes.Repeat([]byte{2}, piicrypt.KeySize),
	))
	require.NoError(t, err)
	t.Cleanup(cipher.Close)
	return cipher
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func outputIO(in string) (IOTuple, *bytes.Buffer) {
	var out bytes.Buffer
	return IOTuple{Reader: strings.NewReader(in), Writer: &out}, &out
}

func TestRunKeygen(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunKeygen(&out))

	re := regexp.MustCompile(`(?m)^(PII_ENCRYPTION_KEY|PII_HASH_KEY)="([A-Za-z0-9+/=]+)"$`)
	matches := re.FindAllStringSubmatch(out.String(), -1)
	require.Len(t, matches, 2)

	t.Setenv(piicrypt.EnvEncryptionKey, matches[0][2])
	t.Setenv(piicrypt.EnvHashKey, matches[1][2])

	// The generated pair is accepted as is
	km, err := piicrypt.LoadKeyMaterial()
	require.NoError(t, err)
	require.NotNil(t, km)

	enc, err := base64.StdEncoding.DecodeString(matches[0][2])
	require.NoError(t, err)
	require.Len(t, enc, piicrypt.KeySize)
}

func TestRunKeygen_Unique(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, RunKeygen(&first))
	require.NoError(t, RunKeygen(&second))
	require.NotEqual(t, first.String(), second.String())
}

func TestRunEncryptDecrypt(t *testing.T) {
	cipher := newTestCipher(t)

	t.Run("argument", func(t *testing.T) {
		stdio, out := outputIO("")
		require.NoError(t, RunEncrypt(cipher, discardLogger(), stdio, "user:firstName", "Ada"))

		payload := strings.TrimSpace(out.String())
		stdio, out = outputIO("")
		require.NoError(t, RunDecrypt(cipher, discardLogger(), stdio, "user:firstName", payload))
		require.Equal(t, "Ada\n", out.String())
	})

	t.Run("stdin", func(t *testing.T) {
		stdio, out := outputIO("Lovelace\n")
		require.NoError(t, RunEncrypt(cipher, discardLogger(), stdio, "user:lastName", "-"))

		stdio, out = outputIO(out.String())
		require.NoError(t, RunDecrypt(cipher, discardLogger(), stdio, "user:lastName", ""))
		require.Equal(t, "Lovelace\n", out.String())
	})

	t.Run("no-value", func(t *testing.T) {
		stdio, _ := outputIO("")
		err := RunEncrypt(cipher, discardLogger(), stdio, "user:firstName", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "no value given")
	})

	t.Run("bad-payload", func(t *testing.T) {
		stdio, _ := outputIO("")
		err := RunDecrypt(cipher, discardLogger(), stdio, "user:firstName", "garbage!!")
		require.ErrorIs(t, err, piicrypt.ErrMalformedPayload)
	})

	t.Run("missing-context", func(t *testing.T) {
		stdio, _ := outputIO("")
		err := RunEncrypt(cipher, discardLogger(), stdio, "", "Ada")
		require.ErrorIs(t, err, piicrypt.ErrInvalidArgument)
	})
}

func TestRunReseal(t *testing.T) {
	cipher := newTestCipher(t)
	payload, err := cipher.Encrypt("Ada", "user:name")
	require.NoError(t, err)

	stdio, out := outputIO("")
	require.NoError(t, RunReseal(cipher, discardLogger(), stdio, "user:name", "user:firstName", payload))

	got, err := cipher.DecryptString(strings.TrimSpace(out.String()), "user:firstName")
	require.NoError(t, err)
	require.Equal(t, "Ada", got)
}

func TestRunHash(t *testing.T) {
	cipher := newTestCipher(t)

	stdio, out := outputIO("")
	require.NoError(t, RunHash(cipher, discardLogger(), stdio, "user:phone-query", "phone", "+1 (555) 123-4567"))

	want, err := cipher.Hash("15551234567", "user:phone-query")
	require.NoError(t, err)
	require.Equal(t, want+"\n", out.String())

	stdio, _ = outputIO("")
	err = RunHash(cipher, discardLogger(), stdio, "user:phone-query", "soundex", "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid normalizer")
}

func TestRunHashEmail(t *testing.T) {
	cipher := newTestCipher(t)

	stdio, out := outputIO("")
	require.NoError(t, RunHashEmail(cipher, stdio, "", "", "Alice@Example.com"))

	want, err := cipher.EmailLookupHash("alice@example.com")
	require.NoError(t, err)
	require.Equal(t, want+"\n", out.String())

	stdio, out = outputIO("")
	require.NoError(t, RunHashEmail(cipher, stdio, "company", "contactEmail", "Alice@Example.com"))
	want, err = cipher.Hash("alice@example.com", "company:contactEmail-query")
	require.NoError(t, err)
	require.Equal(t, want+"\n", out.String())

	stdio, _ = outputIO("")
	err = RunHashEmail(cipher, stdio, "company", "", "a@b.co")
	require.Error(t, err)
	require.Contains(t, err.Error(), "together")
}

func TestRunProtectEmail(t *testing.T) {
	cipher := newTestCipher(t)

	t.Run("json", func(t *testing.T) {
		stdio, out := outputIO("")
		require.NoError(t, RunProtectEmail(cipher, discardLogger(), stdio, "", "", "Alice@Example.com", "json"))

		var got protectedEmailOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Equal(t, "alice@example.com", got.Normalized)

		lookup, err := cipher.EmailLookupHash("alice@example.com")
		require.NoError(t, err)
		require.Equal(t, lookup, got.Hash)

		email, err := cipher.DecryptString(got.Encrypted, "user:email")
		require.NoError(t, err)
		require.Equal(t, "Alice@Example.com", email)
	})

	t.Run("text", func(t *testing.T) {
		stdio, out := outputIO("Alice@Example.com\n")
		require.NoError(t, RunProtectEmail(cipher, discardLogger(), stdio, "", "", "-", "text"))
		require.Contains(t, out.String(), "normalized: alice@example.com\n")
		require.Contains(t, out.String(), "hash:       ")
	})

	t.Run("invalid-email", func(t *testing.T) {
		stdio, _ := outputIO("")
		err := RunProtectEmail(cipher, discardLogger(), stdio, "", "", "not-an-email", "text")
		require.ErrorIs(t, err, piicrypt.ErrInvalidEmailFormat)
	})

	t.Run("invalid-format", func(t *testing.T) {
		stdio, _ := outputIO("")
		err := RunProtectEmail(cipher, discardLogger(), stdio, "", "", "a@b.co", "yaml")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid format")
	})
}

func TestReadValue(t *testing.T) {
	got, err := readValue(nil, "inline")
	require.NoError(t, err)
	require.Equal(t, "inline", got)

	got, err = readValue(strings.NewReader("first line\r\nsecond"), "-")
	require.NoError(t, err)
	require.Equal(t, "first line", got)

	got, err = readValue(strings.NewReader("no newline"), "")
	require.NoError(t, err)
	require.Equal(t, "no newline", got)

	_, err = readValue(nil, "")
	require.Error(t, err)
}
