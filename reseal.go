package piicrypt

// Reseal re-encrypts a payload sealed under fromContext so that it is sealed
// under toContext, with a fresh nonce. Use this when a column moves to a new
// context name.
//
// Returns nil if payload is blank (NULL stays NULL).
// Returns error if decryption fails.
func (c *Cipher) Reseal(payload, fromContext, toContext string) (*string, error) {
	return c.ResealFrom(c, payload, fromContext, toContext)
}

// ResealFrom decrypts payload with src and re-encrypts it with c.
// Use this to migrate a column between cipher configurations, e.g. when
// enabling WithContextBinding or switching Algorithm.
func (c *Cipher) ResealFrom(src *Cipher, payload, fromContext, toContext string) (*string, error) {
	plaintext, err := src.Decrypt(payload, fromContext)
	if err != nil || plaintext == nil {
		return nil, err
	}

	resealed, err := c.Encrypt(*plaintext, toContext)
	if err != nil {
		return nil, err
	}
	return &resealed, nil
}

// BackfillEmail computes the lookup digest for an email that was stored
// encrypted before its hash column existed. The stored ciphertext is kept
// as is; only Hash and Normalized are derived from it.
//
// Format is not re-validated: legacy rows are hashed as stored.
// Returns nil if payload is blank.
func (c *Cipher) BackfillEmail(payload string, ctxs EmailContexts) (*ProtectedEmail, error) {
	if err := ctxs.validate(); err != nil {
		return nil, err
	}

	email, err := c.Decrypt(payload, ctxs.Storage)
	if err != nil || email == nil {
		return nil, err
	}

	canonical, err := CanonicalizeEmail(*email)
	if err != nil {
		return nil, err
	}

	digest, err := c.Hash(canonical, ctxs.Query)
	if err != nil {
		return nil, err
	}

	return &ProtectedEmail{
		Encrypted:  payload,
		Hash:       digest,
		Normalized: canonical,
	}, nil
}
