package piicrypt

import (
	"encoding/base64"
	"strings"
)

// Payload format (before base64):
// [nonce:12][tag:16][ciphertext:n]
//
// Go's AEAD implementations append the tag to the ciphertext, so the tag is
// moved to the front on seal and back to the end on open.

const (
	nonceSize  = 12
	tagSize    = 16
	headerSize = nonceSize + tagSize
)

// formatPayload assembles nonce || tag || ciphertext from an AEAD output of
// ciphertext || tag and base64 encodes it.
func formatPayload(nonce, sealed []byte) string {
	ctLen := len(sealed) - tagSize

	result := make([]byte, 0, headerSize+ctLen)
	result = append(result, nonce...)
	result = append(result, sealed[ctLen:]...)
	result = append(result, sealed[:ctLen]...)

	return base64.StdEncoding.EncodeToString(result)
}

// parsePayload decodes a base64 payload and returns the nonce and the
// AEAD input (ciphertext || tag).
// Returns ErrMalformedPayload if the payload is not base64 or carries no ciphertext.
func parsePayload(payload string) (nonce, sealed []byte, err error) {
	data, decodeErr := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if decodeErr != nil {
		err = ErrMalformedPayload
		return
	}

	if len(data) <= headerSize {
		err = ErrMalformedPayload
		return
	}

	nonce = data[:nonceSize]
	tag := data[nonceSize:headerSize]
	ct := data[headerSize:]

	sealed = make([]byte, 0, len(ct)+tagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	return
}
