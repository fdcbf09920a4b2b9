// Package harness builds an in-memory settlement environment for service
// tests: a private SQLite database, a fixed clock and recording sinks.
package harness

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/internal/cache"
	"github.com/joefazee/settle/internal/clock"
	"github.com/joefazee/settle/internal/events"
	"github.com/joefazee/settle/internal/gate"
	applog "github.com/joefazee/settle/internal/logger"
	"github.com/joefazee/settle/internal/store"
	"github.com/joefazee/settle/models"
)

// Epoch is the instant every harness clock starts at.
var Epoch = time.Date(2030, time.January, 1, 12, 0, 0, 0, time.UTC)

// Env is one isolated engine environment.
type Env struct {
	DB     *gorm.DB
	Store  store.Store
	Signer *authority.Signer
	Clock  *clock.Fixed
	Events *events.Recorder
	Logger *applog.Memory
	Gate   gate.Gate
}

// New opens a fresh database with every table migrated.
func New(t *testing.T) *Env {
	t.Helper()

	db := OpenDB(t)
	signer, err := authority.NewSigner([]byte(strings.Repeat("h", authority.MinKeySize)))
	require.NoError(t, err)

	gateCache := cache.NewMemoryCache[bool](time.Minute)
	t.Cleanup(gateCache.Stop)

	return &Env{
		DB:     db,
		Store:  store.New(db),
		Signer: signer,
		Clock:  clock.NewFixed(Epoch),
		Events: events.NewRecorder(),
		Logger: applog.NewMemory(),
		Gate:   gate.New(gateCache, false),
	}
}

// OpenDB returns a migrated in-memory SQLite database private to t.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// Fund sets the balance of a holder account directly.
func (e *Env) Fund(t *testing.T, account string, amount uint64) {
	t.Helper()
	acc := models.Account{ID: account, Kind: models.AccountKindHolder, Balance: amount}
	require.NoError(t, e.DB.Save(&acc).Error)
}

// Balance reads an account balance, zero when the account does not exist.
func (e *Env) Balance(t *testing.T, account string) uint64 {
	t.Helper()
	var acc models.Account
	err := e.DB.Where("id = ?", account).Limit(1).Find(&acc).Error
	require.NoError(t, err)
	return acc.Balance
}

// FundVault seeds a market vault, standing in for bets or deposits that
// were placed before the test starts.
func (e *Env) FundVault(t *testing.T, marketID uuid.UUID, vault authority.Vault, amount uint64) {
	t.Helper()
	acc := models.Account{ID: authority.Account(marketID, vault), Kind: models.AccountKindVault, Balance: amount}
	require.NoError(t, e.DB.Save(&acc).Error)
}

// VaultBalance reads the balance of one vault of market.
func (e *Env) VaultBalance(t *testing.T, marketID uuid.UUID, vault authority.Vault) uint64 {
	t.Helper()
	return e.Balance(t, authority.Account(marketID, vault))
}

// Market reloads a market.
func (e *Env) Market(t *testing.T, id uuid.UUID) *models.Market {
	t.Helper()
	m, err := e.Store.GetMarket(t.Context(), id)
	require.NoError(t, err)
	return m
}

// SeedMarket stores an active market between "creator" and "oracle" that
// expires a day after the clock. mutate may adjust it before it is saved.
func (e *Env) SeedMarket(t *testing.T, mutate func(m *models.Market)) *models.Market {
	t.Helper()
	m := &models.Market{
		ID:                 uuid.New(),
		Creator:            "creator",
		Oracle:             "oracle",
		OracleFeeAccount:   "oracle",
		Title:              "Will it rain tomorrow?",
		OutcomeA:           "Yes",
		OutcomeB:           "No",
		Status:             models.MarketStatusActive,
		ResolutionDeadline: e.Clock.Now().Add(24 * time.Hour),
		CreatedAt:          e.Clock.Now(),
	}
	if mutate != nil {
		mutate(m)
	}
	require.NoError(t, e.Store.CreateMarket(t.Context(), m))
	return m
}

// Expire moves the clock past the deadline of m.
func (e *Env) Expire(m *models.Market) {
	e.Clock.Set(m.ResolutionDeadline.Add(time.Second))
}
