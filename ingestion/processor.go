// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/reconcile"
	"github.com/poiesic/vitae/storage"
)

// ChunkRequest is one chunk of a document uploaded by a client that did its
// own splitting.
type ChunkRequest struct {
	Text         string
	ChunkIndex   int
	TotalChunks  int
	IsFirstChunk bool
	IsLastChunk  bool
	DocumentHash core.ID // Optional; identifies the whole document in provenance
}

// ChunkResult reports what one chunk wrote.
type ChunkResult struct {
	EntriesCreated    int
	EntriesUpdated    int
	DuplicatesSkipped int
	IsComplete        bool
}

// IngestChunk extracts and reconciles one client-supplied chunk. Unlike
// IngestDocument a failed extraction is returned to the caller, who owns the
// retry.
func (p *Pipeline) IngestChunk(ctx context.Context, userID core.UserID, req ChunkRequest) (ChunkResult, error) {
	if userID == "" {
		return ChunkResult{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, core.ErrMissingUser)
	}
	if strings.TrimSpace(req.Text) == "" {
		return ChunkResult{}, fmt.Errorf("%w: chunk text is empty", core.ErrInvalidInput)
	}
	if req.TotalChunks < 1 || req.ChunkIndex < 0 || req.ChunkIndex >= req.TotalChunks {
		return ChunkResult{}, fmt.Errorf("%w: chunk %d of %d", core.ErrInvalidInput, req.ChunkIndex, req.TotalChunks)
	}

	hash := req.DocumentHash
	if hash == 0 {
		hash = core.IDFromContent(req.Text)
	}
	chunk := core.TextChunk{
		Index:   req.ChunkIndex,
		Total:   req.TotalChunks,
		Text:    req.Text,
		IsFirst: req.IsFirstChunk,
		IsLast:  req.IsLastChunk,
	}
	summary, err := p.ProcessChunk(ctx, userID, chunk, hash)
	if err != nil {
		return ChunkResult{}, err
	}
	return ChunkResult{
		EntriesCreated:    summary.EntriesCreated,
		EntriesUpdated:    summary.EntriesUpdated,
		DuplicatesSkipped: summary.DuplicatesSkipped,
		IsComplete:        req.IsLastChunk,
	}, nil
}

// ProcessChunk extracts one chunk and reconciles it into the user's CV with
// date augmentation. The profile is only taken from the first chunk.
func (p *Pipeline) ProcessChunk(ctx context.Context, userID core.UserID, chunk core.TextChunk, documentHash core.ID) (reconcile.Summary, error) {
	extraction, err := p.extractor.ExtractDocument(ctx, chunk)
	if err != nil {
		return reconcile.Summary{}, err
	}
	return p.reconcileChunk(ctx, userID, chunk, extraction, documentHash)
}

func (p *Pipeline) reconcileChunk(ctx context.Context, userID core.UserID, chunk core.TextChunk, extraction *core.Extraction, documentHash core.ID) (reconcile.Summary, error) {
	if chunk.IsFirst && !extraction.Profile.IsEmpty() {
		if err := p.applyProfile(ctx, userID, extraction.Profile); err != nil {
			return reconcile.Summary{}, fmt.Errorf("applying profile: %w", err)
		}
	}
	return p.engine.Reconcile(ctx, userID, extraction.Categories, reconcile.Options{
		Target:       reconcile.TargetCanonical,
		AugmentDates: true,
		Provenance: core.Provenance{
			Source:       core.SourceDocumentImport,
			DocumentHash: documentHash,
		},
	})
}

// applyProfile fills only the profile fields that are still empty.
func (p *Pipeline) applyProfile(ctx context.Context, userID core.UserID, extracted *core.ExtractedProfile) error {
	profile, err := p.profiles.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		profile = &core.Profile{UserId: userID}
	case err != nil:
		return err
	}

	changed := false
	fill := func(dst *string, src string) {
		src = strings.TrimSpace(src)
		if *dst == "" && src != "" {
			*dst = src
			changed = true
		}
	}
	fill(&profile.Name, extracted.Name)
	fill(&profile.Phone, extracted.Phone)
	fill(&profile.Address, extracted.Address)
	fill(&profile.Institution, extracted.Institution)
	fill(&profile.Website, extracted.Website)
	if !changed {
		return nil
	}
	p.logger.Debug("updating profile", "user", userID)
	return p.profiles.SaveProfile(ctx, profile)
}
