package badger

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
)

// EntryRepository implements storage.EntryRepository for BadgerDB.
type EntryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.EntryRepository = (*EntryRepository)(nil)

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(backend *Backend) (*EntryRepository, error) {
	idSeq, err := backend.GetSequence(entryIDSeq)
	if err != nil {
		return nil, err
	}
	return &EntryRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *EntryRepository) Close() error {
	return r.idSeq.Release()
}

// AddEntries adds one or more entries to storage.
func (r *EntryRepository) AddEntries(ctx context.Context, entries ...*core.Entry) ([]*core.Entry, error) {
	for _, entry := range entries {
		if err := core.ValidateEntry(entry); err != nil {
			return nil, err
		}
	}
	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		for _, entry := range entries {
			category, err := readValue(tx, makeCategoryKey(entry.CategoryId), storage.UnmarshalCategory)
			if err != nil {
				return err
			}
			if category == nil {
				return storage.ErrNotFound
			}
			if err := r.insertEntry(tx, category.CVId, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AddUniqueEntry adds an entry unless its title key is already taken in the CV.
// On a duplicate it returns the existing entry alongside storage.ErrDuplicateKey.
func (r *EntryRepository) AddUniqueEntry(ctx context.Context, entry *core.Entry) (*core.Entry, error) {
	if err := core.ValidateEntry(entry); err != nil {
		return nil, err
	}
	var existing *core.Entry
	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		existing = nil
		category, err := readValue(tx, makeCategoryKey(entry.CategoryId), storage.UnmarshalCategory)
		if err != nil {
			return err
		}
		if category == nil {
			return storage.ErrNotFound
		}
		if entry.TitleKey != "" {
			ids, err := readIDs(tx, makeEntryTitleKey(category.CVId, entry.TitleKey))
			if err != nil {
				return err
			}
			if len(ids) > 0 {
				existing, err = readValue(tx, makeEntryKey(ids[0]), storage.UnmarshalEntry)
				if err != nil {
					return err
				}
				return storage.ErrDuplicateKey
			}
		}
		return r.insertEntry(tx, category.CVId, entry)
	})
	if err == storage.ErrDuplicateKey {
		return existing, err
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *EntryRepository) insertEntry(tx *badger.Txn, cvID core.ID, entry *core.Entry) error {
	id, err := nextID(r.idSeq)
	if err != nil {
		return err
	}
	order, err := bumpCounter(tx, makeEntryMaxKey(entry.CategoryId))
	if err != nil {
		return err
	}
	entry.Id = core.ID(id)
	entry.DisplayOrder = order
	entry.InsertedAt = time.Now().UTC()
	entry.UpdatedAt = entry.InsertedAt

	if err := tx.Set(makeEntryKey(entry.Id), storage.MarshalEntry(entry)); err != nil {
		return err
	}
	if err := tx.Set(makeEntryCategoryKey(entry.CategoryId, entry.Id), storage.MarshalID(entry.Id)); err != nil {
		return err
	}
	if err := tx.Set(makeEntryCVKey(cvID, entry.Id), storage.MarshalID(entry.Id)); err != nil {
		return err
	}
	if entry.TitleKey != "" {
		return addToIndex(tx, makeEntryTitleKey(cvID, entry.TitleKey), entry.Id)
	}
	return nil
}

// UpdateEntries updates existing entries. Category, display order and
// insertion time are carried over from the stored record.
func (r *EntryRepository) UpdateEntries(ctx context.Context, entries ...*core.Entry) ([]*core.Entry, error) {
	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		for _, entry := range entries {
			key := makeEntryKey(entry.Id)
			old, err := readValue(tx, key, storage.UnmarshalEntry)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}
			entry.CategoryId = old.CategoryId
			entry.DisplayOrder = old.DisplayOrder
			entry.InsertedAt = old.InsertedAt
			entry.UpdatedAt = time.Now().UTC()
			if err := core.ValidateEntry(entry); err != nil {
				return err
			}

			if old.TitleKey != entry.TitleKey {
				category, err := readValue(tx, makeCategoryKey(entry.CategoryId), storage.UnmarshalCategory)
				if err != nil {
					return err
				}
				if category == nil {
					return storage.ErrNotFound
				}
				if old.TitleKey != "" {
					if err := removeFromIndex(tx, makeEntryTitleKey(category.CVId, old.TitleKey), entry.Id); err != nil {
						return err
					}
				}
				if entry.TitleKey != "" {
					if err := addToIndex(tx, makeEntryTitleKey(category.CVId, entry.TitleKey), entry.Id); err != nil {
						return err
					}
				}
			}

			if err := tx.Set(key, storage.MarshalEntry(entry)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntries removes entries by their IDs.
func (r *EntryRepository) DeleteEntries(ctx context.Context, ids ...core.ID) error {
	return r.backend.Update(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeEntryKey(id)
			entry, err := readValue(tx, key, storage.UnmarshalEntry)
			if err != nil {
				return err
			}
			if entry == nil {
				return storage.ErrNotFound
			}
			category, err := readValue(tx, makeCategoryKey(entry.CategoryId), storage.UnmarshalCategory)
			if err != nil {
				return err
			}
			if category != nil {
				if err := tx.Delete(makeEntryCVKey(category.CVId, id)); err != nil {
					return err
				}
				if entry.TitleKey != "" {
					if err := removeFromIndex(tx, makeEntryTitleKey(category.CVId, entry.TitleKey), id); err != nil {
						return err
					}
				}
			}
			if err := tx.Delete(makeEntryCategoryKey(entry.CategoryId, id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetEntry retrieves a single entry by ID.
func (r *EntryRepository) GetEntry(ctx context.Context, id core.ID) (*core.Entry, error) {
	var result *core.Entry
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readValue(tx, makeEntryKey(id), storage.UnmarshalEntry)
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

// ListEntriesByCategory returns a category's entries ordered by display order.
func (r *EntryRepository) ListEntriesByCategory(ctx context.Context, categoryID core.ID) ([]*core.Entry, error) {
	var results []*core.Entry
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		results, err = r.readIndexed(tx, scanKey(entryCategoryPrefix, ord(uint64(categoryID))))
		return err
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b *core.Entry) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.Id, b.Id))
	})
	return results, nil
}

// ListEntriesByCV returns every entry in a CV ordered by ID.
func (r *EntryRepository) ListEntriesByCV(ctx context.Context, cvID core.ID) ([]*core.Entry, error) {
	var results []*core.Entry
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		results, err = r.readIndexed(tx, scanKey(entryCVPrefix, ord(uint64(cvID))))
		return err
	})
	return results, err
}

// FindEntryByTitleKey returns the lowest-ID entry in the CV holding titleKey.
func (r *EntryRepository) FindEntryByTitleKey(ctx context.Context, cvID core.ID, titleKey string) (*core.Entry, error) {
	var result *core.Entry
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		ids, err := readIDs(tx, makeEntryTitleKey(cvID, titleKey))
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return storage.ErrNotFound
		}
		result, err = readValue(tx, makeEntryKey(ids[0]), storage.UnmarshalEntry)
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

// CountEntries returns the number of entries in a category.
func (r *EntryRepository) CountEntries(ctx context.Context, categoryID core.ID) (int, error) {
	count := 0
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		count = countPrefix(tx, scanKey(entryCategoryPrefix, ord(uint64(categoryID))))
		return nil
	})
	return count, err
}

func (r *EntryRepository) readIndexed(tx *badger.Txn, prefix []byte) ([]*core.Entry, error) {
	var results []*core.Entry
	err := scanPrefix(tx, prefix, func(_, val []byte) error {
		id, err := storage.UnmarshalID(val)
		if err != nil {
			return err
		}
		entry, err := readValue(tx, makeEntryKey(id), storage.UnmarshalEntry)
		if err != nil {
			return err
		}
		if entry != nil {
			results = append(results, entry)
		}
		return nil
	})
	return results, err
}

func countPrefix(tx *badger.Txn, prefix []byte) int {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	count := 0
	for iter.Rewind(); iter.Valid(); iter.Next() {
		count++
	}
	return count
}
