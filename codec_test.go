package piicrypt

import (
	"bytes"
	"encoding/base64"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestReadPolicy_String(t *testing.T) {
	require.Equal(t, "strict", StrictReads.String())
	require.Equal(t, "tolerant", TolerantReads.String())
	require.Equal(t, "unknown", ReadPolicy(42).String())
}

func TestFieldCodec_RoundTrip(t *testing.T) {
	cipher := newTestCipher(t)
	codec := cipher.NewFieldCodec("user:lastName", StrictReads)
	require.Equal(t, "user:lastName", codec.Context())

	stored, err := codec.Encode(strPtr("Lovelace"))
	require.NoError(t, err)
	require.NotNil(t, stored)

	got, err := codec.Decode(stored)
	require.NoError(t, err)
	require.Equal(t, "Lovelace", *got)
}

func TestFieldCodec_Null(t *testing.T) {
	cipher := newTestCipher(t)
	codec := cipher.NewFieldCodec("user:lastName", StrictReads)

	for _, v := range []*string{nil, strPtr(""), strPtr("   ")} {
		stored, err := codec.Encode(v)
		require.NoError(t, err)
		require.Nil(t, stored)

		got, err := codec.Decode(v)
		require.NoError(t, err)
		require.Nil(t, got)
	}
}

func TestFieldCodec_StrictReads(t *testing.T) {
	cipher := newTestCipher(t)
	codec := cipher.NewFieldCodec("user:lastName", StrictReads)

	_, err := codec.Decode(strPtr("garbage!!"))
	require.ErrorIs(t, err, ErrMalformedPayload)

	other, err := New(WithKeys(testKey("other-enc"), testKey("hash")))
	require.NoError(t, err)
	foreign, err := other.Encrypt("Lovelace", "user:lastName")
	require.NoError(t, err)

	_, err = codec.Decode(&foreign)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestFieldCodec_TolerantReads(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	cipher := newTestCipher(t, WithLogger(logger))
	codec := cipher.NewFieldCodec("user:address", TolerantReads)

	short := base64.StdEncoding.EncodeToString(make([]byte, headerSize))
	got, err := codec.Decode(&short)
	require.NoError(t, err)
	require.Nil(t, got)

	require.Contains(t, buf.String(), `"level":"WARN"`)
	require.Contains(t, buf.String(), "failed to decrypt field, reading as null")
	require.Contains(t, buf.String(), `"context":"user:address"`)
	require.NotContains(t, buf.String(), short)

	// Readable payloads are still returned
	stored, err := codec.Encode(strPtr("1 Main St"))
	require.NoError(t, err)
	got, err = codec.Decode(stored)
	require.NoError(t, err)
	require.Equal(t, "1 Main St", *got)
}

func TestFieldCodec_TolerantReadsKeepsOtherErrors(t *testing.T) {
	cipher := newTestCipher(t)
	codec := cipher.NewFieldCodec("user:address", TolerantReads)

	stored, err := codec.Encode(strPtr("1 Main St"))
	require.NoError(t, err)

	cipher.Close()
	_, err = codec.Decode(stored)
	require.ErrorIs(t, err, ErrCipherClosed)
}

func TestIndexedFieldCodec(t *testing.T) {
	cipher := newTestCipher(t)
	codec := cipher.NewIndexedFieldCodec("user:phone", NormalizePhone, StrictReads)

	sealed, err := codec.Encode(strPtr("+1 (555) 123-4567"))
	require.NoError(t, err)
	require.NotNil(t, sealed)

	got, err := codec.Decode(&sealed.Ciphertext)
	require.NoError(t, err)
	require.Equal(t, "+1 (555) 123-4567", *got)

	require.Equal(t, mustHash(t, cipher, "15551234567", "user:phone-query"), sealed.Hash)

	field := codec.HashedField("phoneHash")
	require.Equal(t, "phoneHash", field.Column)
	require.Equal(t, "user:phone-query", field.QueryContext)

	where, err := cipher.RewriteEqualityPredicate(Eq("phone", "555.123.4567"), FieldMap{"phone": field})
	require.NoError(t, err)
	require.NotEqual(t, sealed.Hash, where.(Condition).Value, "leading country code differs")

	where, err = cipher.RewriteEqualityPredicate(Eq("phone", "1-555-123-4567"), FieldMap{"phone": field})
	require.NoError(t, err)
	require.Equal(t, sealed.Hash, where.(Condition).Value)
}

func TestIndexedFieldCodec_NullAndDefaultNormalizer(t *testing.T) {
	cipher := newTestCipher(t)
	codec := cipher.NewIndexedFieldCodec("user:nickname", nil, StrictReads)

	sealed, err := codec.Encode(nil)
	require.NoError(t, err)
	require.Nil(t, sealed)

	sealed, err = codec.Encode(strPtr("Ada"))
	require.NoError(t, err)
	require.Equal(t, mustHash(t, cipher, "Ada", "user:nickname-query"), sealed.Hash)
}

func TestEmailFieldCodec(t *testing.T) {
	cipher := newTestCipher(t)
	ctxs := EmailContextsFor("company", "contactEmail")
	codec := cipher.NewEmailFieldCodec(ctxs, StrictReads)
	require.Equal(t, "company:contactEmail", codec.Context())

	protected, err := codec.Encode(strPtr("Ops@Acme.io"))
	require.NoError(t, err)
	require.Equal(t, "ops@acme.io", protected.Normalized)

	got, err := codec.Decode(&protected.Encrypted)
	require.NoError(t, err)
	require.Equal(t, "Ops@Acme.io", *got)

	protected, err = codec.Encode(nil)
	require.NoError(t, err)
	require.Nil(t, protected)

	_, err = codec.Encode(strPtr("not an email"))
	require.ErrorIs(t, err, ErrInvalidEmailFormat)

	field := codec.HashedField("contactEmailHash")
	require.Equal(t, EmailField("contactEmailHash", ctxs).QueryContext, field.QueryContext)
}
