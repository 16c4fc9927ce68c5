package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// UserID identifies the owner of a CV. It is resolved by the caller's
// authentication layer; there is no process-wide default user.
type UserID string

// SourceType records which ingestion path produced a record.
type SourceType int

const (
	// SourceDocumentImport is an uploaded CV or resume.
	SourceDocumentImport SourceType = iota + 1
	// SourceEmail is a forwarded email.
	SourceEmail
	// SourceBibliographicImport is a bibliographic search result.
	SourceBibliographicImport
	// SourceManual is a record created by hand through the review surface.
	SourceManual
)

// String returns the wire name of the source type.
func (s SourceType) String() string {
	switch s {
	case SourceDocumentImport:
		return "document-import"
	case SourceEmail:
		return "email"
	case SourceBibliographicImport:
		return "bibliographic-import"
	case SourceManual:
		return "manual"
	default:
		return "unknown"
	}
}

// PendingStatus is the review state of a staged entry.
type PendingStatus int

const (
	// PendingStatusPending is awaiting a human decision.
	PendingStatusPending PendingStatus = iota + 1
	// PendingStatusApproved has been copied into the canonical store and is
	// about to be deleted.
	PendingStatusApproved
)

// Provenance describes where a record came from.
type Provenance struct {
	Source       SourceType
	ExternalID   string // e.g. a bibliographic record id
	SecondaryID  string // e.g. a DOI alongside a database id
	DocumentHash ID     // IDFromContent of the source text
	ImportedAt   time.Time
}

// CV is the root of the canonical ownership chain. Each user has one CV.
type CV struct {
	Id        ID
	UserId    UserID
	Title     string
	CreatedAt time.Time
}

// Category groups entries within a CV, e.g. "Education" or "Publications".
type Category struct {
	Id           ID
	CVId         ID
	Name         string
	DisplayOrder int
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// Entry is a canonical CV record. It belongs to exactly one category.
type Entry struct {
	Id           ID
	CategoryId   ID
	Title        string
	TitleKey     string // Normalization key used as the deduplication identity
	Description  string
	Location     string
	URL          string
	Date         time.Time // Zero when no date could be determined
	DisplayOrder int
	Provenance   Provenance
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// HasDate reports whether the entry carries a normalized date.
func (e *Entry) HasDate() bool {
	return !e.Date.IsZero()
}

// PendingEntry is a staged entry awaiting review. It is owned by a user rather
// than a category; the suggested category is advisory only.
type PendingEntry struct {
	Id                ID
	UserId            UserID
	Status            PendingStatus
	SuggestedCategory string
	Title             string
	TitleKey          string
	Description       string
	Location          string
	URL               string
	Date              time.Time
	Provenance        Provenance
	InsertedAt        time.Time
}

// Profile holds person-identity fields for a user.
type Profile struct {
	UserId      UserID
	Name        string
	Phone       string
	Address     string
	Institution string
	Website     string
	UpdatedAt   time.Time
}

// TaskState is the lifecycle state of a background ingestion task.
type TaskState int

const (
	// TaskWaiting is queued and not yet picked up by a worker.
	TaskWaiting TaskState = iota + 1
	// TaskActive is being processed by a worker.
	TaskActive
	// TaskCompleted finished, possibly with a partial result.
	TaskCompleted
	// TaskFailed exhausted its attempts or was cancelled.
	TaskFailed
)

// String returns the wire name of the state.
func (s TaskState) String() string {
	switch s {
	case TaskWaiting:
		return "waiting"
	case TaskActive:
		return "active"
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TaskResult summarizes what a task wrote.
type TaskResult struct {
	CategoriesFound   int
	EntriesCreated    int
	EntriesUpdated    int
	DuplicatesSkipped int
	ChunksFailed      int
	CreditsExhausted  bool
}

// Task is a durable background ingestion request. The source text is stored,
// not the chunks; chunking is deterministic so a retry resumes at ChunksDone.
type Task struct {
	Id            string
	UserId        UserID
	FileName      string
	Text          string
	DocumentHash  ID
	State         TaskState
	Attempts      int
	MaxAttempts   int
	NextRunAt     time.Time
	ChunksTotal   int
	ChunksDone    int
	Result        TaskResult
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	FinishedAt    time.Time
}

// Progress returns completion as a percentage of chunks processed.
func (t *Task) Progress() int {
	if t.ChunksTotal == 0 {
		if t.State == TaskCompleted {
			return 100
		}
		return 0
	}
	return t.ChunksDone * 100 / t.ChunksTotal
}

// CreditAccount is a user's prepaid processing balance.
type CreditAccount struct {
	UserId    UserID
	Balance   int64
	UpdatedAt time.Time
}

// CreditDebit is one entry in the debit log.
type CreditDebit struct {
	UserId       UserID
	TaskId       string
	ChunkIndex   int
	Amount       int64
	BalanceAfter int64
	At           time.Time
}
