package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MinYear is the earliest year a normalized date may carry.
	MinYear = 1900
	// MaxYear is the latest year a normalized date may carry.
	MaxYear = 2100
)

// ValidateEntry validates an Entry according to domain rules.
//
// Validation rules:
//   - Title must not be blank
//   - CategoryId must be set
//   - Date, when present, must fall within MinYear..MaxYear
//
// NOT validated:
//   - ID and DisplayOrder (assigned by storage)
func ValidateEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if strings.TrimSpace(entry.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyTitle)
	}

	if entry.CategoryId == 0 {
		return fmt.Errorf("%w: category id is required", ErrInvalidEntry)
	}

	if !IsValidDate(entry.Date) {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrDateOutOfRange)
	}

	return nil
}

// ValidatePendingEntry validates a PendingEntry according to domain rules.
func ValidatePendingEntry(entry *PendingEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidPendingEntry)
	}

	if entry.UserId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPendingEntry, ErrMissingUser)
	}

	if strings.TrimSpace(entry.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPendingEntry, ErrEmptyTitle)
	}

	if err := ValidateSourceType(entry.Provenance.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPendingEntry, err)
	}

	if !IsValidDate(entry.Date) {
		return fmt.Errorf("%w: %w", ErrInvalidPendingEntry, ErrDateOutOfRange)
	}

	return nil
}

// ValidateCategory validates a Category according to domain rules.
func ValidateCategory(category *Category) error {
	if category == nil {
		return fmt.Errorf("%w: category is nil", ErrInvalidCategory)
	}

	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCategory, ErrEmptyCategoryName)
	}

	if category.CVId == 0 {
		return fmt.Errorf("%w: cv id is required", ErrInvalidCategory)
	}

	return nil
}

// ValidateSourceType validates that a SourceType has a valid value.
func ValidateSourceType(source SourceType) error {
	if source < SourceDocumentImport || source > SourceManual {
		return fmt.Errorf("%w: value %d", ErrInvalidSourceType, source)
	}
	return nil
}

// IsValidDate reports whether t is either absent (zero) or within the
// supported year range.
func IsValidDate(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	return t.Year() >= MinYear && t.Year() <= MaxYear
}
