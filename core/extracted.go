package core

// RawDocument is an uploaded document before text extraction. It is never
// persisted.
type RawDocument struct {
	Content   []byte
	MediaType string
	FileName  string
}

// TextChunk is one contiguous slice of a document's text. Chunks are never
// persisted; chunking is deterministic so they can be recomputed.
type TextChunk struct {
	Index   int
	Total   int
	Text    string
	IsFirst bool
	IsLast  bool
}

// ExtractedProfile holds person-identity fields pulled from a document.
// Every field is optional.
type ExtractedProfile struct {
	Name        string
	Phone       string
	Address     string
	Institution string
	Website     string
}

// IsEmpty reports whether no field was extracted.
func (p *ExtractedProfile) IsEmpty() bool {
	return p == nil || (p.Name == "" && p.Phone == "" && p.Address == "" && p.Institution == "" && p.Website == "")
}

// ExtractedEntry is a single record pulled from text. Title is its only
// natural key.
type ExtractedEntry struct {
	Title       string
	Description string
	RawDateText string
	Location    string
	URL         string
	ExternalID  string
	SecondaryID string
}

// ExtractedCategory groups extracted entries under a category name as the
// document presented them.
type ExtractedCategory struct {
	Name    string
	Entries []ExtractedEntry
}

// Extraction is the validated result of one extraction call.
type Extraction struct {
	Categories []ExtractedCategory
	Profile    *ExtractedProfile
}

// EntryCount returns the number of entries across all categories.
func (e *Extraction) EntryCount() int {
	n := 0
	for _, c := range e.Categories {
		n += len(c.Entries)
	}
	return n
}
