package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
)

// PendingRepository implements storage.PendingRepository for BadgerDB.
type PendingRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.PendingRepository = (*PendingRepository)(nil)

// NewPendingRepository creates a new PendingRepository.
func NewPendingRepository(backend *Backend) (*PendingRepository, error) {
	idSeq, err := backend.GetSequence(pendingIDSeq)
	if err != nil {
		return nil, err
	}
	return &PendingRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *PendingRepository) Close() error {
	return r.idSeq.Release()
}

// AddUniquePendingEntry stages an entry unless the user already has one with
// the same title key.
func (r *PendingRepository) AddUniquePendingEntry(ctx context.Context, entry *core.PendingEntry) (*core.PendingEntry, error) {
	if err := core.ValidatePendingEntry(entry); err != nil {
		return nil, err
	}
	var existing *core.PendingEntry
	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		existing = nil
		if entry.TitleKey != "" {
			ids, err := readIDs(tx, makePendingTitleKey(entry.UserId, entry.TitleKey))
			if err != nil {
				return err
			}
			if len(ids) > 0 {
				existing, err = readValue(tx, makePendingKey(ids[0]), storage.UnmarshalPendingEntry)
				if err != nil {
					return err
				}
				return storage.ErrDuplicateKey
			}
		}
		return r.insertPending(tx, entry)
	})
	if err == storage.ErrDuplicateKey {
		return existing, err
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *PendingRepository) insertPending(tx *badger.Txn, entry *core.PendingEntry) error {
	id, err := nextID(r.idSeq)
	if err != nil {
		return err
	}
	entry.Id = core.ID(id)
	entry.Status = core.PendingStatusPending
	entry.InsertedAt = time.Now().UTC()

	if err := tx.Set(makePendingKey(entry.Id), storage.MarshalPendingEntry(entry)); err != nil {
		return err
	}
	if err := tx.Set(makePendingUserKey(entry.UserId, entry.Id), storage.MarshalID(entry.Id)); err != nil {
		return err
	}
	if entry.TitleKey != "" {
		return addToIndex(tx, makePendingTitleKey(entry.UserId, entry.TitleKey), entry.Id)
	}
	return nil
}

// MarkApproved flips a pending entry's status to approved.
func (r *PendingRepository) MarkApproved(ctx context.Context, id core.ID) error {
	return r.backend.Update(ctx, func(tx *badger.Txn) error {
		key := makePendingKey(id)
		entry, err := readValue(tx, key, storage.UnmarshalPendingEntry)
		if err != nil {
			return err
		}
		if entry == nil {
			return storage.ErrNotFound
		}
		entry.Status = core.PendingStatusApproved
		return tx.Set(key, storage.MarshalPendingEntry(entry))
	})
}

// DeletePendingEntries removes staged entries by ID.
func (r *PendingRepository) DeletePendingEntries(ctx context.Context, ids ...core.ID) error {
	return r.backend.Update(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePendingKey(id)
			entry, err := readValue(tx, key, storage.UnmarshalPendingEntry)
			if err != nil {
				return err
			}
			if entry == nil {
				return storage.ErrNotFound
			}
			if entry.TitleKey != "" {
				if err := removeFromIndex(tx, makePendingTitleKey(entry.UserId, entry.TitleKey), id); err != nil {
					return err
				}
			}
			if err := tx.Delete(makePendingUserKey(entry.UserId, id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetPendingEntry retrieves a staged entry by ID.
func (r *PendingRepository) GetPendingEntry(ctx context.Context, id core.ID) (*core.PendingEntry, error) {
	var result *core.PendingEntry
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readValue(tx, makePendingKey(id), storage.UnmarshalPendingEntry)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	})
	return result, err
}

// ListPendingEntries returns a user's staged entries ordered by ID.
func (r *PendingRepository) ListPendingEntries(ctx context.Context, userID core.UserID) ([]*core.PendingEntry, error) {
	var results []*core.PendingEntry
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		return scanPrefix(tx, scanKey(pendingUserPrefix, seg(string(userID))), func(_, val []byte) error {
			id, err := storage.UnmarshalID(val)
			if err != nil {
				return err
			}
			entry, err := readValue(tx, makePendingKey(id), storage.UnmarshalPendingEntry)
			if err != nil {
				return err
			}
			if entry != nil {
				results = append(results, entry)
			}
			return nil
		})
	})
	return results, err
}

// CountPendingEntries returns the number of staged entries for a user.
func (r *PendingRepository) CountPendingEntries(ctx context.Context, userID core.UserID) (int, error) {
	count := 0
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		count = countPrefix(tx, scanKey(pendingUserPrefix, seg(string(userID))))
		return nil
	})
	return count, err
}
