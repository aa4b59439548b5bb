package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	// Low cost keeps the test fast; correctness is cost-independent.
	hasher := NewBcryptHasher(bcrypt.MinCost)
	verifier := NewBcryptVerifier()

	t.Run("hash verifies against original password", func(t *testing.T) {
		t.Parallel()
		digest, err := hasher.Hash("secret1")
		require.NoError(t, err)
		require.NotEmpty(t, digest)

		assert.NoError(t, verifier.Compare(digest, "secret1"))
	})

	t.Run("digest embeds a fresh salt on every call", func(t *testing.T) {
		t.Parallel()
		first, err := hasher.Hash("secret1")
		require.NoError(t, err)
		second, err := hasher.Hash("secret1")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)

		// Both digests still verify.
		assert.NoError(t, verifier.Compare(first, "secret1"))
		assert.NoError(t, verifier.Compare(second, "secret1"))
	})

	t.Run("wrong password fails verification", func(t *testing.T) {
		t.Parallel()
		digest, err := hasher.Hash("secret1")
		require.NoError(t, err)

		assert.Error(t, verifier.Compare(digest, "wrong"))
	})

	t.Run("malformed digest fails closed", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, verifier.Compare("not-a-bcrypt-digest", "secret1"))
		assert.Error(t, verifier.Compare("", "secret1"))
	})

	t.Run("digest encodes the configured cost", func(t *testing.T) {
		t.Parallel()
		costHasher := NewBcryptHasher(bcrypt.MinCost)
		digest, err := costHasher.Hash("secret1")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(digest))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})

	t.Run("out of range cost falls back to default", func(t *testing.T) {
		t.Parallel()
		fallback := NewBcryptHasher(0)
		assert.Equal(t, DefaultBcryptCost, fallback.cost)

		fallback = NewBcryptHasher(99)
		assert.Equal(t, DefaultBcryptCost, fallback.cost)
	})

	t.Run("long passwords hash without error up to bcrypt limit", func(t *testing.T) {
		t.Parallel()
		digest, err := hasher.Hash(strings.Repeat("a", 72))
		require.NoError(t, err)
		assert.NoError(t, verifier.Compare(digest, strings.Repeat("a", 72)))
	})
}
