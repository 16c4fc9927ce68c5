package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
)

// CreditRepository implements storage.CreditRepository for BadgerDB.
type CreditRepository struct {
	backend *Backend
	logSeq  *badger.Sequence
}

var _ storage.CreditRepository = (*CreditRepository)(nil)

// NewCreditRepository creates a new CreditRepository.
func NewCreditRepository(backend *Backend) (*CreditRepository, error) {
	logSeq, err := backend.GetSequence(creditLogSeq)
	if err != nil {
		return nil, err
	}
	return &CreditRepository{
		backend: backend,
		logSeq:  logSeq,
	}, nil
}

// Close releases the debit log sequence.
func (r *CreditRepository) Close() error {
	return r.logSeq.Release()
}

// Balance returns the user's balance.
func (r *CreditRepository) Balance(ctx context.Context, userID core.UserID) (int64, error) {
	var balance int64
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		account, err := readValue(tx, makeCreditKey(userID), storage.UnmarshalCreditAccount)
		if err != nil {
			return err
		}
		if account != nil {
			balance = account.Balance
		}
		return nil
	})
	return balance, err
}

// Grant adds amount to the user's balance.
func (r *CreditRepository) Grant(ctx context.Context, userID core.UserID, amount int64) (int64, error) {
	if userID == "" {
		return 0, core.ErrMissingUser
	}
	var balance int64
	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		account, err := r.readAccount(tx, userID)
		if err != nil {
			return err
		}
		account.Balance += amount
		account.UpdatedAt = time.Now().UTC()
		balance = account.Balance
		return tx.Set(makeCreditKey(userID), storage.MarshalCreditAccount(account))
	})
	return balance, err
}

// Debit subtracts debit.Amount and records it in the log in one transaction.
func (r *CreditRepository) Debit(ctx context.Context, debit *core.CreditDebit) (int64, error) {
	if debit.UserId == "" {
		return 0, core.ErrMissingUser
	}
	var balance int64
	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		account, err := r.readAccount(tx, debit.UserId)
		if err != nil {
			return err
		}
		balance = account.Balance
		if account.Balance < debit.Amount {
			return core.ErrInsufficientCredits
		}
		seq, err := nextID(r.logSeq)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		account.Balance -= debit.Amount
		account.UpdatedAt = now
		debit.BalanceAfter = account.Balance
		debit.At = now
		balance = account.Balance

		if err := tx.Set(makeCreditKey(debit.UserId), storage.MarshalCreditAccount(account)); err != nil {
			return err
		}
		return tx.Set(makeCreditLogKey(debit.UserId, seq), storage.MarshalCreditDebit(debit))
	})
	return balance, err
}

// ListDebits returns the user's debit log, oldest first.
func (r *CreditRepository) ListDebits(ctx context.Context, userID core.UserID) ([]*core.CreditDebit, error) {
	var results []*core.CreditDebit
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		results, err = scanDecoded(tx, scanKey(creditLogPrefix, seg(string(userID))), storage.UnmarshalCreditDebit)
		return err
	})
	return results, err
}

func (r *CreditRepository) readAccount(tx *badger.Txn, userID core.UserID) (*core.CreditAccount, error) {
	account, err := readValue(tx, makeCreditKey(userID), storage.UnmarshalCreditAccount)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account = &core.CreditAccount{UserId: userID}
	}
	return account, nil
}
