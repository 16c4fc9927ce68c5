package badger

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
)

// CategoryRepository implements storage.CategoryRepository for BadgerDB.
type CategoryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(backend *Backend) (*CategoryRepository, error) {
	idSeq, err := backend.GetSequence(categoryIDSeq)
	if err != nil {
		return nil, err
	}
	return &CategoryRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *CategoryRepository) Close() error {
	return r.idSeq.Release()
}

// GetOrCreateCategory finds a category by case-insensitive name or creates it
// at the end of the CV's display order.
func (r *CategoryRepository) GetOrCreateCategory(ctx context.Context, cvID core.ID, name string) (*core.Category, bool, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateCategory(&core.Category{CVId: cvID, Name: name}); err != nil {
		return nil, false, err
	}

	var result *core.Category
	var created bool
	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		created = false
		existing, err := readCategoryByName(tx, cvID, name)
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
		order, err := bumpCounter(tx, makeCategoryMaxKey(cvID))
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		category := &core.Category{
			Id:           core.ID(id),
			CVId:         cvID,
			Name:         name,
			DisplayOrder: order,
			InsertedAt:   now,
			UpdatedAt:    now,
		}
		if err := tx.Set(makeCategoryKey(category.Id), storage.MarshalCategory(category)); err != nil {
			return err
		}
		if err := tx.Set(makeCategoryNameKey(cvID, name), storage.MarshalID(category.Id)); err != nil {
			return err
		}
		if err := tx.Set(makeCategoryCVKey(cvID, category.Id), storage.MarshalID(category.Id)); err != nil {
			return err
		}
		result = category
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// FindCategoryByName finds a category by case-insensitive name.
func (r *CategoryRepository) FindCategoryByName(ctx context.Context, cvID core.ID, name string) (*core.Category, error) {
	var result *core.Category
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readCategoryByName(tx, cvID, name)
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

// GetCategory retrieves a single category by ID.
func (r *CategoryRepository) GetCategory(ctx context.Context, id core.ID) (*core.Category, error) {
	var result *core.Category
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readValue(tx, makeCategoryKey(id), storage.UnmarshalCategory)
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

// ListCategories returns a CV's categories ordered by display order.
func (r *CategoryRepository) ListCategories(ctx context.Context, cvID core.ID) ([]*core.Category, error) {
	var results []*core.Category
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		return scanPrefix(tx, scanKey(categoryCVPrefix, ord(uint64(cvID))), func(_, val []byte) error {
			id, err := storage.UnmarshalID(val)
			if err != nil {
				return err
			}
			category, err := readValue(tx, makeCategoryKey(id), storage.UnmarshalCategory)
			if err != nil {
				return err
			}
			if category != nil {
				results = append(results, category)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b *core.Category) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.Id, b.Id))
	})
	return results, nil
}

func readCategoryByName(tx *badger.Txn, cvID core.ID, name string) (*core.Category, error) {
	item, err := tx.Get(makeCategoryNameKey(cvID, name))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var id core.ID
	err = item.Value(func(val []byte) error {
		var decodeErr error
		id, decodeErr = storage.UnmarshalID(val)
		return decodeErr
	})
	if err != nil {
		return nil, err
	}
	return readValue(tx, makeCategoryKey(id), storage.UnmarshalCategory)
}
