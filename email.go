package piicrypt

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"
)

// emailPattern accepts local-part@domain.tld. The local part may contain
// Unicode; the domain needs at least one dot and an alphabetic (or punycode) TLD.
var emailPattern = regexp.MustCompile(
	`^[^\s@"(),:;<>\[\]\\]+@(?:[\p{L}\p{N}](?:[\p{L}\p{N}-]*[\p{L}\p{N}])?\.)+(?:\p{L}{2,}|xn--[\p{L}\p{N}-]+)$`,
)

const (
	maxLocalPartLength = 64
	maxAddressLength   = 254
)

// addressOctets enforces the address limit in bytes; Length counts runes.
var addressOctets = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if len(s) > maxAddressLength {
		return validation.NewError("validation_email_length_octets", "email must be at most 254 bytes")
	}
	return nil
})

// localPart rejects dot placements the pattern alone lets through.
var localPart = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	at := strings.LastIndexByte(s, '@')
	if at < 0 {
		return nil
	}
	local := s[:at]
	switch {
	case len(local) > maxLocalPartLength:
		return validation.NewError("validation_email_local_length", "local part must be at most 64 bytes")
	case strings.HasPrefix(local, "."), strings.HasSuffix(local, "."):
		return validation.NewError("validation_email_local_dot", "local part must not start or end with a dot")
	case strings.Contains(local, ".."):
		return validation.NewError("validation_email_local_dots", "local part must not contain consecutive dots")
	}
	return nil
})

var emailRules = []validation.Rule{
	validation.Required.Error("email is required"),
	validation.Length(3, maxAddressLength).Error("email must be between 3 and 254 characters"),
	addressOctets,
	validation.Match(emailPattern).Error("must be local-part@domain.tld"),
	localPart,
}

// EmailContexts names the contexts an email is protected under: Storage for
// the ciphertext, Query for the lookup digest.
type EmailContexts struct {
	Storage string
	Query   string
}

// DefaultEmailContexts are the contexts of the user email column.
var DefaultEmailContexts = EmailContexts{
	Storage: "user:email",
	Query:   "user:email-query",
}

// EmailContextsFor builds "<entity>:<field>" and "<entity>:<field>-query".
func EmailContextsFor(entity, field string) EmailContexts {
	base := entity + ":" + field
	return EmailContexts{
		Storage: base,
		Query:   QueryContext(base),
	}
}

// QueryContext returns the lookup variant of a storage context.
func QueryContext(context string) string {
	return context + "-query"
}

func (e EmailContexts) validate() error {
	if strings.TrimSpace(e.Storage) == "" || strings.TrimSpace(e.Query) == "" {
		return fmt.Errorf("%w: email storage and query contexts are required", ErrConfiguration)
	}
	if e.Storage == e.Query {
		return fmt.Errorf("%w: email storage and query contexts must differ", ErrConfiguration)
	}
	return nil
}

// ProtectedEmail is what gets persisted for an email: the ciphertext of the
// address as entered and the digest of its canonical form.
type ProtectedEmail struct {
	Encrypted  string
	Hash       string
	Normalized string
}

// CanonicalizeEmail trims and lower-cases an email address.
// Returns ErrInvalidArgument if the result is empty.
func CanonicalizeEmail(email string) (string, error) {
	canonical := NormalizeEmail(email)
	if canonical == "" {
		return "", invalidArgument("email is empty")
	}
	return canonical, nil
}

// ValidateEmailFormat checks that email is local-part@domain.tld.
// Returns an *EmailFormatError (matching ErrInvalidEmailFormat) on failure.
func ValidateEmailFormat(email string) error {
	if err := validation.Validate(email, emailRules...); err != nil {
		return &EmailFormatError{Code: EmailFormatCode, Reason: err.Error()}
	}
	return nil
}

// ProtectEmail protects an email under the cipher's email contexts.
func (c *Cipher) ProtectEmail(email string) (*ProtectedEmail, error) {
	return c.ProtectEmailWith(email, c.config.emailContexts)
}

// ProtectEmailWith validates the trimmed address, encrypts it as entered under
// ctxs.Storage and hashes its canonical form under ctxs.Query.
//
// Lookups are therefore case-insensitive while decryption returns the
// original casing. Either a fully populated result or an error is returned.
//
// Example:
//
//	p, _ := cipher.ProtectEmailWith("Alice@Example.COM", piicrypt.DefaultEmailContexts)
//	// p.Encrypted decrypts to "Alice@Example.COM"
//	// p.Hash == Hash("alice@example.com", "user:email-query")
func (c *Cipher) ProtectEmailWith(email string, ctxs EmailContexts) (*ProtectedEmail, error) {
	if err := ctxs.validate(); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, invalidArgument("email is empty")
	}
	if err := ValidateEmailFormat(trimmed); err != nil {
		return nil, err
	}

	canonical, err := CanonicalizeEmail(trimmed)
	if err != nil {
		return nil, err
	}

	encrypted, err := c.Encrypt(trimmed, ctxs.Storage)
	if err != nil {
		return nil, err
	}

	digest, err := c.Hash(canonical, ctxs.Query)
	if err != nil {
		return nil, err
	}

	return &ProtectedEmail{
		Encrypted:  encrypted,
		Hash:       digest,
		Normalized: canonical,
	}, nil
}

// EmailLookupHash returns the digest to search for when looking an email up
// under the cipher's email contexts. Format is not validated: a malformed
// address simply matches nothing.
func (c *Cipher) EmailLookupHash(email string) (string, error) {
	canonical, err := CanonicalizeEmail(email)
	if err != nil {
		return "", err
	}
	return c.Hash(canonical, c.config.emailContexts.Query)
}

// EmailContexts returns the contexts used by ProtectEmail.
func (c *Cipher) EmailContexts() EmailContexts {
	return c.config.emailContexts
}
