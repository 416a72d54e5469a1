package piicrypt

import (
	"strings"
	"testing"
)

var benchCipher *Cipher

func init() {
	benchCipher, _ = New(WithKeys(testKey("enc"), testKey("hash")))
}

func benchmarkEncrypt(b *testing.B, size int) {
	value := strings.Repeat("x", size)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = benchCipher.Encrypt(value, "user:note")
	}
}

func BenchmarkEncrypt_32B(b *testing.B)  { benchmarkEncrypt(b, 32) }
func BenchmarkEncrypt_1KB(b *testing.B)  { benchmarkEncrypt(b, 1024) }
func BenchmarkEncrypt_64KB(b *testing.B) { benchmarkEncrypt(b, 64*1024) }

func BenchmarkDecrypt_32B(b *testing.B) {
	payload, _ := benchCipher.Encrypt(strings.Repeat("x", 32), "user:note")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = benchCipher.Decrypt(payload, "user:note")
	}
}

func BenchmarkDecrypt_ChaCha20_32B(b *testing.B) {
	cipher, _ := New(WithKeys(testKey("enc"), testKey("hash")), WithAlgorithm(ChaCha20Poly1305))
	payload, _ := cipher.Encrypt(strings.Repeat("x", 32), "user:note")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cipher.Decrypt(payload, "user:note")
	}
}

func BenchmarkHash(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = benchCipher.Hash("alice@example.com", "user:email-query")
	}
}

func BenchmarkProtectEmail(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = benchCipher.ProtectEmail("Alice@Example.com")
	}
}

func BenchmarkValidateEmailFormat(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = ValidateEmailFormat("first.last+tag@sub.example.org")
	}
}

func BenchmarkRewrite_In10(b *testing.B) {
	values := make([]string, 10)
	for i := range values {
		values[i] = "user" + strings.Repeat("x", i) + "@example.com"
	}
	pred := And{In("email", values...), Eq("status", "active")}
	fields := FieldMap{"email": EmailField("emailHash", DefaultEmailContexts)}

	r, _ := NewRewriter(benchCipher, fields)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Rewrite(pred)
	}
}

func BenchmarkToSQL(b *testing.B) {
	pred := Or{
		And{Eq("emailHash", "h"), Eq("status", "active")},
		In("role", "admin", "owner"),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ToSQL(pred, 1)
	}
}
