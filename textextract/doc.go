// Package textextract turns uploaded bytes into plain text for the chunker.
//
// Plain text, markdown and RFC 822 email are handled here. Binary formats
// such as PDF and Word are expected to be converted upstream; asking for one
// returns core.ErrUnsupportedMediaType.
package textextract
