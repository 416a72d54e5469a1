// Package piicrypt provides field-level encryption of PII columns with
// deterministic keyed hashes for exact-match lookup.
//
// Sensitive values (names, emails, addresses, contact details, secrets) are
// encrypted before they reach storage. Columns that must be searchable also
// carry a keyed digest, and query filters on those columns are rewritten to
// compare digests, so neither plaintext nor a reversible index is ever stored
// or sent to the database.
//
// # Keys
//
// Two independent 32-byte keys are read from the environment as base64:
//
//	PII_ENCRYPTION_KEY  AEAD key
//	PII_HASH_KEY        hash key, must differ from the encryption key
//
// A missing, malformed or wrong-length key is a configuration error. There is
// no unencrypted fallback.
//
// # Encryption
//
// Encrypt uses AES-256-GCM (or ChaCha20-Poly1305, see WithAlgorithm) with a
// random 12-byte nonce per call. The stored form is
//
//	base64(nonce[12] || tag[16] || ciphertext)
//
// Every call takes a context, "<entity>:<fieldName>" by convention
// (e.g. "user:firstName"). The same context must be supplied on Decrypt.
// With WithContextBinding the context is also bound as associated data.
//
//	cipher, err := piicrypt.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	payload, err := cipher.Encrypt("Alice", "user:firstName")
//	name, err := cipher.Decrypt(payload, "user:firstName") // *string
//
// # Lookup hashes
//
// Hash returns a 128-character hex HMAC-SHA512 digest under a per-context key
// derived from the hash key with HKDF, so equal values under different
// contexts do not produce equal digests.
//
// # Emails
//
// ProtectEmail validates an address, encrypts it as entered under
// "user:email" and hashes its lower-cased form under "user:email-query":
//
//	p, err := cipher.ProtectEmail("Alice@Example.com")
//	// store p.Encrypted in "email", p.Hash in "emailHash"
//
// # Query rewriting
//
// RewriteEqualityPredicate turns eq / in filters on hashed fields into
// filters on their digest columns, leaving every other leaf alone:
//
//	fields := piicrypt.FieldMap{
//	    "email": piicrypt.EmailField("emailHash", piicrypt.DefaultEmailContexts),
//	}
//	where, err := cipher.RewriteEqualityPredicate(piicrypt.And{
//	    piicrypt.Eq("email", "ALICE@example.com"),
//	    piicrypt.Eq("status", "active"),
//	}, fields)
//	cond, err := piicrypt.ToSQL(where, 1)
//
// Range, prefix, like and ne filters on a hashed field return
// ErrUnsupportedPredicate.
//
// # Concurrency
//
// A Cipher is immutable after New and safe for concurrent use. Close waits
// for in-flight calls, then wipes the keys.
package piicrypt
