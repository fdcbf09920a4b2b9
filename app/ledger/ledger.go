package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/models"
)

type ledger struct {
	db       *gorm.DB
	signer   *authority.Signer
	treasury string
}

// New returns a gorm backed Ledger. signer verifies vault grants.
func New(db *gorm.DB, signer *authority.Signer, cfg *Config) Ledger {
	return &ledger{db: db, signer: signer, treasury: cfg.TreasuryAccount}
}

func (l *ledger) WithTx(tx *gorm.DB) Ledger {
	return &ledger{db: tx, signer: l.signer, treasury: l.treasury}
}

func (l *ledger) Account(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	err := l.db.WithContext(ctx).Where("id = ?", id).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &acc, nil
}

func (l *ledger) Balance(ctx context.Context, id string) (uint64, error) {
	acc, err := l.Account(ctx, id)
	if errors.Is(err, models.ErrAccountNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (l *ledger) Transfer(ctx context.Context, from, to string, amount uint64, ref Ref) (*models.Transfer, error) {
	if authority.IsVaultAccount(from) {
		return nil, models.ErrInvalidGrant
	}
	return l.move(ctx, from, to, amount, ref, models.ErrInsufficientBalance)
}

func (l *ledger) Release(ctx context.Context, grant authority.Grant, to string, amount uint64, ref Ref) (*models.Transfer, error) {
	if l.signer == nil || !l.signer.Verify(grant) {
		return nil, models.ErrInvalidGrant
	}
	return l.move(ctx, grant.Account(), to, amount, ref, models.ErrInsufficientVaultFunds)
}

func (l *ledger) Credit(ctx context.Context, to string, amount uint64, ref Ref) (*models.Transfer, error) {
	if amount == 0 {
		return nil, models.ErrInvalidAmount
	}
	if to == "" {
		return nil, models.ErrInvalidAccountID
	}

	var entry *models.Transfer
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accounts, err := l.lock(ctx, tx, to)
		if err != nil {
			return err
		}
		dst := accounts[to]
		if err := dst.Credit(amount); err != nil {
			return err
		}
		if err := saveBalance(ctx, tx, dst); err != nil {
			return err
		}
		entry, err = record(ctx, tx, "", to, amount, ref)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// move debits from and credits to. shortfall is returned when from cannot
// cover amount.
func (l *ledger) move(ctx context.Context, from, to string, amount uint64, ref Ref, shortfall error) (*models.Transfer, error) {
	if amount == 0 {
		return nil, models.ErrInvalidAmount
	}
	if from == "" || to == "" || from == to {
		return nil, models.ErrInvalidAccountID
	}

	var entry *models.Transfer
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accounts, err := l.lock(ctx, tx, from, to)
		if err != nil {
			return err
		}
		src, dst := accounts[from], accounts[to]

		if err := src.Debit(amount); err != nil {
			if errors.Is(err, models.ErrInsufficientBalance) {
				return shortfall
			}
			return err
		}
		if err := dst.Credit(amount); err != nil {
			return err
		}
		if err := saveBalance(ctx, tx, src); err != nil {
			return err
		}
		if err := saveBalance(ctx, tx, dst); err != nil {
			return err
		}
		entry, err = record(ctx, tx, from, to, amount, ref)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// lock opens missing accounts and locks every row in ascending id order.
func (l *ledger) lock(ctx context.Context, tx *gorm.DB, ids ...string) (map[string]*models.Account, error) {
	ordered := append([]string(nil), ids...)
	sort.Strings(ordered)

	out := make(map[string]*models.Account, len(ordered))
	for _, id := range ordered {
		open := models.Account{ID: id, Kind: l.kindOf(id)}
		if err := tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&open).Error; err != nil {
			return nil, fmt.Errorf("open account: %w", err)
		}

		var acc models.Account
		err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&acc).Error
		if err != nil {
			return nil, fmt.Errorf("lock account: %w", err)
		}
		out[id] = &acc
	}
	return out, nil
}

func (l *ledger) kindOf(id string) models.AccountKind {
	switch {
	case authority.IsVaultAccount(id):
		return models.AccountKindVault
	case id == l.treasury:
		return models.AccountKindTreasury
	default:
		return models.AccountKindHolder
	}
}

func (l *ledger) History(ctx context.Context, accountID string, limit, offset int) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := l.db.WithContext(ctx).
		Where("from_account = ? OR to_account = ?", accountID, accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return transfers, nil
}

func saveBalance(ctx context.Context, tx *gorm.DB, acc *models.Account) error {
	if err := tx.WithContext(ctx).Model(acc).Update("balance", acc.Balance).Error; err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return nil
}

func record(ctx context.Context, tx *gorm.DB, from, to string, amount uint64, ref Ref) (*models.Transfer, error) {
	entry := &models.Transfer{
		FromAccount: from,
		ToAccount:   to,
		Amount:      amount,
		Reason:      ref.Reason,
		MarketID:    ref.MarketID,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("record transfer: %w", err)
	}
	return entry, nil
}
