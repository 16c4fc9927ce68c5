package textextract

import (
	"context"
	"regexp"
	"strings"
)

var (
	mdCodeBlock  = regexp.MustCompile("(?s)```.*?```")
	mdInlineCode = regexp.MustCompile("`([^`]+)`")
	mdImage      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	mdLink       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	mdHeading    = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	mdQuote      = regexp.MustCompile(`(?m)^>[ \t]?`)
	mdRule       = regexp.MustCompile(`(?m)^[ \t]*[-*_]{3,}[ \t]*$`)
	mdBullet     = regexp.MustCompile(`(?m)^([ \t]*)[-*+][ \t]+`)
	mdEmphasis   = regexp.MustCompile(`(\*\*|__|\*)([^*_\n]+?)(\*\*|__|\*)`)
	mdBlankRun   = regexp.MustCompile(`\n{3,}`)
)

// extractMarkdown keeps the line structure of a markdown document and drops
// the markup. Headings stay on their own line so category names survive, and
// link targets are kept because entry URLs often live there.
func extractMarkdown(ctx context.Context, content []byte) (string, error) {
	text, err := extractPlain(ctx, content)
	if err != nil {
		return "", err
	}
	text = mdCodeBlock.ReplaceAllString(text, "")
	text = mdImage.ReplaceAllString(text, "")
	text = mdLink.ReplaceAllString(text, "$1 ($2)")
	text = mdInlineCode.ReplaceAllString(text, "$1")
	text = mdRule.ReplaceAllString(text, "")
	text = mdHeading.ReplaceAllString(text, "")
	text = mdQuote.ReplaceAllString(text, "")
	text = mdBullet.ReplaceAllString(text, "$1- ")
	text = mdEmphasis.ReplaceAllString(text, "$2")
	text = mdBlankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}
