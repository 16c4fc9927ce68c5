package reconcile

import (
	"strings"
	"time"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/dates"
)

// Action is what the applier does with one extracted entry.
type Action int

const (
	// ActionCreate creates a canonical or pending entry.
	ActionCreate Action = iota + 1
	// ActionSkip drops a duplicate.
	ActionSkip
	// ActionAugment fills in the date of an undated canonical entry.
	ActionAugment
)

// Target selects where created entries go.
type Target int

const (
	// TargetCanonical writes accepted entries straight to the canonical store.
	TargetCanonical Target = iota + 1
	// TargetPending stages accepted entries for review.
	TargetPending
)

// Options controls one reconciliation run.
type Options struct {
	Target Target
	// AugmentDates lets a duplicate of an undated canonical entry supply its
	// date, and its location when the existing one is empty.
	AugmentDates bool
	// Provenance is copied onto every created entry. Per-entry source ids
	// come from the extraction.
	Provenance core.Provenance
}

// Existing is what the planner needs to know about a stored canonical entry.
type Existing struct {
	Id          core.ID
	HasDate     bool
	HasLocation bool
}

// Snapshot is the store state a run is planned against: canonical entries of
// the user's CV and pending entries of the user, both by title key.
type Snapshot struct {
	Canonical map[string]Existing
	Pending   map[string]core.ID
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Canonical: map[string]Existing{},
		Pending:   map[string]core.ID{},
	}
}

// Step is the planned outcome for one extracted entry.
type Step struct {
	Action   Action
	Category string
	Key      string
	Entry    core.ExtractedEntry
	Date     time.Time
	// ExistingID is the matched entry for ActionSkip and ActionAugment, when
	// the match is a stored canonical or pending entry.
	ExistingID core.ID
	// AugmentLocation is set when an augment also fills an empty location.
	AugmentLocation bool
}

// Plan decides, in document order, what to do with every extracted entry.
// It is pure: snap is not modified and nothing is read or written.
func Plan(categories []core.ExtractedCategory, snap *Snapshot, opts Options) []Step {
	if snap == nil {
		snap = NewSnapshot()
	}
	// Augments are tracked locally so a second duplicate in the same run does
	// not augment the same entry again.
	augmented := map[string]bool{}
	seen := map[string]bool{}

	var steps []Step
	for _, category := range categories {
		name := strings.TrimSpace(category.Name)
		for _, entry := range category.Entries {
			key := TitleKey(entry.Title)
			if key == "" {
				continue
			}
			step := Step{
				Category: name,
				Key:      key,
				Entry:    entry,
				Date:     dates.Normalize(entry.RawDateText, entry.Title, entry.Description),
			}

			existing, inCanonical := snap.Canonical[key]
			pendingID, inPending := snap.Pending[key]
			switch {
			case seen[key]:
				step.Action = ActionSkip
			case inCanonical:
				step.ExistingID = existing.Id
				step.Action = ActionSkip
				if opts.AugmentDates && !existing.HasDate && !augmented[key] && !step.Date.IsZero() {
					step.Action = ActionAugment
					step.AugmentLocation = !existing.HasLocation && entry.Location != ""
					augmented[key] = true
				}
			case inPending:
				step.ExistingID = pendingID
				step.Action = ActionSkip
			default:
				step.Action = ActionCreate
				seen[key] = true
			}
			steps = append(steps, step)
		}
	}
	return steps
}

// CategoryNames returns the distinct category names of steps, compared
// case-insensitively, in first-seen order.
func CategoryNames(steps []Step) []string {
	seen := map[string]bool{}
	var names []string
	for _, step := range steps {
		lower := strings.ToLower(step.Category)
		if step.Category == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		names = append(names, step.Category)
	}
	return names
}
