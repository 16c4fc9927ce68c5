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

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidEntry indicates an Entry failed validation.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrInvalidPendingEntry indicates a PendingEntry failed validation.
	ErrInvalidPendingEntry = errors.New("invalid pending entry")

	// ErrInvalidCategory indicates a Category failed validation.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyCategoryName indicates the category Name field is empty.
	ErrEmptyCategoryName = errors.New("category name cannot be empty")

	// ErrMissingUser indicates an operation was attempted without a user identity.
	ErrMissingUser = errors.New("user id cannot be empty")

	// ErrInvalidSourceType indicates an invalid SourceType value.
	ErrInvalidSourceType = errors.New("invalid source type")

	// ErrDateOutOfRange indicates a date outside the supported years.
	ErrDateOutOfRange = errors.New("date out of range")
)

// Pipeline error classes. Callers branch on these with errors.Is.
var (
	// ErrInvalidInput indicates a request that can never succeed as given
	// (missing file, missing text). Reported before any side effect.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedMediaType indicates a document type no extractor handles.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrTransient indicates an upstream failure isolated to one chunk:
	// completion errors, timeouts and malformed model output.
	ErrTransient = errors.New("transient upstream failure")

	// ErrInsufficientCredits indicates the user's balance cannot pay for the
	// requested work. Distinct from transient errors: retrying will not help.
	ErrInsufficientCredits = errors.New("insufficient credit balance")
)
