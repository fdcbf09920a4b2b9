package authority

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte(strings.Repeat("k", 32))

func TestAccount(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, Account(id, VaultStakes), Account(id, VaultStakes))
	assert.NotEqual(t, Account(id, VaultStakes), Account(id, VaultLiquidity))
	assert.NotEqual(t, Account(id, VaultStakes), Account(uuid.New(), VaultStakes))
	assert.True(t, IsVaultAccount(Account(id, VaultStakes)))
	assert.False(t, IsVaultAccount("alice"))
}

func TestNewSigner(t *testing.T) {
	_, err := NewSigner([]byte("short"))
	assert.ErrorIs(t, err, ErrKeySize)

	_, err = NewSigner([]byte(strings.Repeat("k", 65)))
	assert.ErrorIs(t, err, ErrKeySize)

	s, err := NewSigner(testKey)
	assert.NoError(t, err)
	assert.NotNil(t, s)
}

func TestSigner(t *testing.T) {
	s, err := NewSigner(testKey)
	require.NoError(t, err)
	marketID := uuid.New()

	t.Run("DeriveAndVerify", func(t *testing.T) {
		g, err := s.Derive(marketID, VaultStakes)
		require.NoError(t, err)
		assert.True(t, s.Verify(g))
		assert.Equal(t, marketID, g.MarketID())
		assert.Equal(t, VaultStakes, g.Vault())
		assert.Equal(t, Account(marketID, VaultStakes), g.Account())
	})

	t.Run("ForeignKeyRejected", func(t *testing.T) {
		other, err := NewSigner([]byte(strings.Repeat("x", 32)))
		require.NoError(t, err)

		g, err := other.Derive(marketID, VaultStakes)
		require.NoError(t, err)
		assert.False(t, s.Verify(g))
	})

	t.Run("ZeroGrantRejected", func(t *testing.T) {
		assert.False(t, s.Verify(Grant{}))
	})

	t.Run("UnknownVault", func(t *testing.T) {
		_, err := s.Derive(marketID, Vault("treasury"))
		assert.ErrorIs(t, err, ErrUnknownVault)
	})
}
