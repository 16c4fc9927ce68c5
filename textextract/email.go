package textextract

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"regexp"
	"strings"

	"github.com/poiesic/vitae/core"
)

// Email is the part of a forwarded message the extractor reads.
type Email struct {
	MessageID string
	Subject   string
	From      string
	Date      string
	Body      string
}

// Text renders the message as the block of text a document chunk would hold.
func (e *Email) Text() string {
	var b strings.Builder
	if e.From != "" {
		fmt.Fprintf(&b, "From: %s\n", e.From)
	}
	if e.Date != "" {
		fmt.Fprintf(&b, "Date: %s\n", e.Date)
	}
	if e.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", e.Subject)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(e.Body)
	return strings.TrimSpace(b.String())
}

// ParseEmail reads an RFC 822 message. Multipart bodies prefer text/plain
// parts over HTML ones.
func ParseEmail(content []byte) (*Email, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	}
	body, err := readBody(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), msg.Body)
	if err != nil {
		return nil, err
	}
	return &Email{
		MessageID: strings.Trim(msg.Header.Get("Message-Id"), "<> "),
		Subject:   decodeHeader(msg.Header.Get("Subject")),
		From:      decodeHeader(msg.Header.Get("From")),
		Date:      msg.Header.Get("Date"),
		Body:      strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n")),
	}, nil
}

func extractEmail(_ context.Context, content []byte) (string, error) {
	email, err := ParseEmail(content)
	if err != nil {
		return "", err
	}
	return email.Text(), nil
}

func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	decoded, err := new(mime.WordDecoder).DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

func readBody(contentType, encoding string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = MediaTypePlain
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = MediaTypePlain
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return readMultipart(r, params["boundary"])
	}

	raw, err := io.ReadAll(decodeTransfer(encoding, r))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %w", core.ErrInvalidInput, err)
	}
	if mediaType == "text/html" {
		return stripTags(string(raw)), nil
	}
	return string(raw), nil
}

func readMultipart(r io.Reader, boundary string) (string, error) {
	if boundary == "" {
		return "", fmt.Errorf("%w: multipart message without boundary", core.ErrInvalidInput)
	}
	reader := multipart.NewReader(r, boundary)
	var plain, html []string
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: reading part: %w", core.ErrInvalidInput, err)
		}
		mediaType, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			mediaType = MediaTypePlain
		}
		// multipart.Part already undoes quoted-printable.
		encoding := part.Header.Get("Content-Transfer-Encoding")
		switch {
		case strings.HasPrefix(mediaType, "multipart/"):
			nested, err := readMultipart(part, params["boundary"])
			if err == nil && nested != "" {
				plain = append(plain, nested)
			}
		case mediaType == MediaTypePlain:
			raw, err := io.ReadAll(decodeTransfer(encoding, part))
			if err == nil {
				plain = append(plain, string(raw))
			}
		case mediaType == "text/html":
			raw, err := io.ReadAll(decodeTransfer(encoding, part))
			if err == nil {
				html = append(html, stripTags(string(raw)))
			}
		}
		part.Close()
	}
	if len(plain) > 0 {
		return strings.Join(plain, "\n"), nil
	}
	return strings.Join(html, "\n"), nil
}

func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

var (
	htmlBreak = regexp.MustCompile(`(?i)<(br|/p|/div|/li|/h[1-6]|/tr)\s*/?>`)
	htmlTag   = regexp.MustCompile(`<[^>]*>`)
	htmlSpace = regexp.MustCompile(`[ \t]+`)
)

func stripTags(html string) string {
	text := htmlBreak.ReplaceAllString(html, "\n")
	text = htmlTag.ReplaceAllString(text, "")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'").Replace(text)
	text = htmlSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
