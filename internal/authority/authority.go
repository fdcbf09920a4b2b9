// Package authority derives the capability that lets the engine move value
// out of a market's vaults. A Grant can only be produced by a Signer holding
// the engine key, and it is bound to one market and one vault.
package authority

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Vault names one of the value pools a market owns.
type Vault string

const (
	// VaultStakes holds every bet placed on the market.
	VaultStakes Vault = "stakes"
	// VaultLiquidity holds provider deposits.
	VaultLiquidity Vault = "liquidity"
)

// Accepted signing key sizes, bounded by the keyed BLAKE2b limit.
const (
	MinKeySize = 32
	MaxKeySize = blake2b.Size
)

var (
	ErrKeySize      = errors.New("authority key must be between 32 and 64 bytes")
	ErrUnknownVault = errors.New("unknown vault")
)

const accountPrefix = "vault:"

var vaultNamespace = uuid.MustParse("6f1d3c52-8a4e-4b7f-9d2a-3e5c7b9a1f08")

// Account returns the deterministic ledger account id of a market vault.
func Account(marketID uuid.UUID, vault Vault) string {
	seed := append(marketID[:], []byte(vault)...)
	return accountPrefix + uuid.NewSHA1(vaultNamespace, seed).String()
}

// IsVaultAccount reports whether id names a market vault. Such accounts can
// only be debited with a Grant.
func IsVaultAccount(id string) bool {
	return strings.HasPrefix(id, accountPrefix)
}

// Grant proves the bearer may debit one vault of one market.
type Grant struct {
	marketID uuid.UUID
	vault    Vault
	proof    [blake2b.Size256]byte
}

// MarketID returns the market the grant is scoped to.
func (g Grant) MarketID() uuid.UUID { return g.marketID }

// Vault returns the vault the grant is scoped to.
func (g Grant) Vault() Vault { return g.vault }

// Account returns the ledger account the grant may debit.
func (g Grant) Account() string { return Account(g.marketID, g.vault) }

// Signer derives and verifies grants.
type Signer struct {
	key []byte
}

// NewSigner copies key so later mutation by the caller has no effect.
func NewSigner(key []byte) (*Signer, error) {
	if len(key) < MinKeySize || len(key) > MaxKeySize {
		return nil, ErrKeySize
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Signer{key: k}, nil
}

// Derive returns the grant for vault of marketID.
func (s *Signer) Derive(marketID uuid.UUID, vault Vault) (Grant, error) {
	if vault != VaultStakes && vault != VaultLiquidity {
		return Grant{}, ErrUnknownVault
	}
	proof, err := s.mac(marketID, vault)
	if err != nil {
		return Grant{}, err
	}
	return Grant{marketID: marketID, vault: vault, proof: proof}, nil
}

// Verify reports whether g was derived with this signer's key.
func (s *Signer) Verify(g Grant) bool {
	if g.marketID == uuid.Nil {
		return false
	}
	want, err := s.mac(g.marketID, g.vault)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(want[:], g.proof[:]) == 1
}

func (s *Signer) mac(marketID uuid.UUID, vault Vault) ([blake2b.Size256]byte, error) {
	var out [blake2b.Size256]byte
	h, err := blake2b.New256(s.key)
	if err != nil {
		return out, fmt.Errorf("init mac: %w", err)
	}
	h.Write(marketID[:])
	h.Write([]byte(vault))
	copy(out[:], h.Sum(nil))
	return out, nil
}
