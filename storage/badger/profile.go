package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
)

// ProfileRepository implements storage.ProfileRepository for BadgerDB.
type ProfileRepository struct {
	backend *Backend
}

var _ storage.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(backend *Backend) *ProfileRepository {
	return &ProfileRepository{
		backend: backend,
	}
}

// Close releases resources. ProfileRepository has no resources to release.
func (r *ProfileRepository) Close() error {
	return nil
}

// GetProfile returns the user's profile.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID core.UserID) (*core.Profile, error) {
	var result *core.Profile
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readValue(tx, makeProfileKey(userID), storage.UnmarshalProfile)
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

// SaveProfile creates or replaces the user's profile.
func (r *ProfileRepository) SaveProfile(ctx context.Context, profile *core.Profile) error {
	if profile.UserId == "" {
		return core.ErrMissingUser
	}
	return r.backend.Update(ctx, func(tx *badger.Txn) error {
		profile.UpdatedAt = time.Now().UTC()
		return tx.Set(makeProfileKey(profile.UserId), storage.MarshalProfile(profile))
	})
}
