package textextract

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/vitae/core"
)

// Media types handled by the default registry.
const (
	MediaTypePlain    = "text/plain"
	MediaTypeMarkdown = "text/markdown"
	MediaTypeEmail    = "message/rfc822"
)

// Extractor converts raw bytes of a given media type into text.
type Extractor interface {
	Extract(ctx context.Context, content []byte, mediaType string) (string, error)
}

// ExtractFunc adapts a function to the Extractor interface.
type ExtractFunc func(ctx context.Context, content []byte) (string, error)

// Registry dispatches on media type.
type Registry struct {
	handlers map[string]ExtractFunc
}

// New returns a registry with the plain text, markdown and email handlers.
func New() *Registry {
	r := &Registry{handlers: map[string]ExtractFunc{}}
	r.Register(MediaTypePlain, extractPlain)
	r.Register(MediaTypeMarkdown, extractMarkdown)
	r.Register("text/x-markdown", extractMarkdown)
	r.Register(MediaTypeEmail, extractEmail)
	return r
}

// Register adds or replaces the handler for a media type.
func (r *Registry) Register(mediaType string, fn ExtractFunc) {
	r.handlers[normalizeMediaType(mediaType)] = fn
}

// Supports reports whether a handler exists for mediaType.
func (r *Registry) Supports(mediaType string) bool {
	_, ok := r.handlers[normalizeMediaType(mediaType)]
	return ok
}

// Extract implements Extractor.
func (r *Registry) Extract(ctx context.Context, content []byte, mediaType string) (string, error) {
	fn, ok := r.handlers[normalizeMediaType(mediaType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnsupportedMediaType, mediaType)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fn(ctx, content)
}

// MediaTypeFor guesses a media type from a file name.
func MediaTypeFor(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".text", "":
		return MediaTypePlain
	case ".md", ".markdown":
		return MediaTypeMarkdown
	case ".eml":
		return MediaTypeEmail
	}
	if guessed := mime.TypeByExtension(filepath.Ext(fileName)); guessed != "" {
		return normalizeMediaType(guessed)
	}
	return "application/octet-stream"
}

func normalizeMediaType(mediaType string) string {
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mediaType))
	}
	return parsed
}

func extractPlain(_ context.Context, content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: content is not valid UTF-8", core.ErrInvalidInput)
	}
	return strings.ReplaceAll(string(content), "\r\n", "\n"), nil
}
