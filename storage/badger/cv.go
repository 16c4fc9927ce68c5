package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
)

// CVRepository implements storage.CVRepository for BadgerDB.
type CVRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.CVRepository = (*CVRepository)(nil)

// NewCVRepository creates a new CVRepository.
func NewCVRepository(backend *Backend) (*CVRepository, error) {
	idSeq, err := backend.GetSequence(cvIDSeq)
	if err != nil {
		return nil, err
	}
	return &CVRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *CVRepository) Close() error {
	return r.idSeq.Release()
}

// GetOrCreateCV returns the user's CV, creating an untitled one on first use.
func (r *CVRepository) GetOrCreateCV(ctx context.Context, userID core.UserID) (*core.CV, error) {
	if userID == "" {
		return nil, core.ErrMissingUser
	}
	var result *core.CV
	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		existing, err := readCVByUser(tx, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		id, err := nextID(r.idSeq)
		if err != nil {
			return err
		}
		cv := &core.CV{
			Id:        core.ID(id),
			UserId:    userID,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Set(makeCVKey(cv.Id), storage.MarshalCV(cv)); err != nil {
			return err
		}
		if err := tx.Set(makeCVUserKey(userID), storage.MarshalID(cv.Id)); err != nil {
			return err
		}
		result = cv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindCVByUser returns the user's CV.
func (r *CVRepository) FindCVByUser(ctx context.Context, userID core.UserID) (*core.CV, error) {
	var result *core.CV
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readCVByUser(tx, userID)
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

// GetCV retrieves a CV by ID.
func (r *CVRepository) GetCV(ctx context.Context, id core.ID) (*core.CV, error) {
	var result *core.CV
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readValue(tx, makeCVKey(id), storage.UnmarshalCV)
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

func readCVByUser(tx *badger.Txn, userID core.UserID) (*core.CV, error) {
	ids, err := readIDs(tx, makeCVUserKey(userID))
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	return readValue(tx, makeCVKey(ids[0]), storage.UnmarshalCV)
}
