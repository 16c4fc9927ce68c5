package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/reconcile"
	"github.com/poiesic/vitae/textextract"
)

// IngestEmail extracts accomplishments from a forwarded RFC 822 message and
// stages them for review.
func (p *Pipeline) IngestEmail(ctx context.Context, userID core.UserID, message []byte) (reconcile.Summary, error) {
	if userID == "" {
		return reconcile.Summary{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, core.ErrMissingUser)
	}
	email, err := textextract.ParseEmail(message)
	if err != nil {
		return reconcile.Summary{}, err
	}
	if email.Body == "" && email.Subject == "" {
		return reconcile.Summary{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, ErrNoText)
	}

	extraction, err := p.extractor.ExtractEmail(ctx, email.Subject, email.Body)
	if err != nil {
		return reconcile.Summary{}, err
	}
	return p.engine.Reconcile(ctx, userID, extraction.Categories, reconcile.Options{
		Target: reconcile.TargetPending,
		Provenance: core.Provenance{
			Source:       core.SourceEmail,
			ExternalID:   email.MessageID,
			DocumentHash: core.IDFromContent(email.Text()),
		},
	})
}

// IngestSearchResult converts one bibliographic record into pending
// publication entries. Identifiers in the record end up in provenance.
func (p *Pipeline) IngestSearchResult(ctx context.Context, userID core.UserID, record string) (reconcile.Summary, error) {
	if userID == "" {
		return reconcile.Summary{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, core.ErrMissingUser)
	}
	if strings.TrimSpace(record) == "" {
		return reconcile.Summary{}, fmt.Errorf("%w: search result is empty", core.ErrInvalidInput)
	}

	extraction, err := p.extractor.ExtractSearchResult(ctx, record)
	if err != nil {
		return reconcile.Summary{}, err
	}
	return p.engine.Reconcile(ctx, userID, extraction.Categories, reconcile.Options{
		Target: reconcile.TargetPending,
		Provenance: core.Provenance{
			Source:       core.SourceBibliographicImport,
			DocumentHash: core.IDFromContent(record),
		},
	})
}
