package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, plain := range []string{"staff123", "patient123", "p", "a much longer passphrase with spaces"} {
		hash, err := h.Hash(plain)
		assert.NoError(t, err)
		assert.True(t, h.Verify(plain, hash))
		assert.False(t, h.Verify(plain+"x", hash))
	}
}

func TestHashSaltsPerCall(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("staff123")
	assert.NoError(t, err)
	second, err := h.Hash("staff123")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("staff123", first))
	assert.True(t, h.Verify("staff123", second))
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.DefaultCost)

	for _, bad := range []string{"", "not-a-hash", "$2a$corrupt", "plaintext-stored-by-mistake"} {
		assert.False(t, h.Verify("staff123", bad))
	}
}

func TestCostClamped(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default instead of
	// failing at hash time.
	h := NewBcryptHasher(99)
	hash, err := h.Hash("staff123")
	assert.NoError(t, err)
	assert.True(t, h.Verify("staff123", hash))
}
