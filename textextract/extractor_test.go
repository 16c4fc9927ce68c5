package textextract

import (
	"context"
	"testing"

	"github.com/poiesic/vitae/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Extract(t *testing.T) {
	r := New()
	ctx := context.Background()

	text, err := r.Extract(ctx, []byte("Education\r\nPhD, MIT, 2010\r\n"), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "Education\nPhD, MIT, 2010\n", text)

	_, err = r.Extract(ctx, []byte("%PDF-1.7"), "application/pdf")
	assert.ErrorIs(t, err, core.ErrUnsupportedMediaType)

	_, err = r.Extract(ctx, []byte{0xff, 0xfe, 0x00}, MediaTypePlain)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestMarkdown(t *testing.T) {
	input := "# Jane Doe\n\n## Education\n\n- **PhD**, [MIT](https://mit.edu), 2010\n* BSc, `Caltech`, 2005\n\n---\n\n> quoted\n"
	text, err := New().Extract(context.Background(), []byte(input), MediaTypeMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nEducation\n\n- PhD, MIT (https://mit.edu), 2010\n- BSc, Caltech, 2005\n\nquoted", text)
}

func TestMediaTypeFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"cv.txt", MediaTypePlain},
		{"CV.MD", MediaTypeMarkdown},
		{"forward.eml", MediaTypeEmail},
		{"README", MediaTypePlain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MediaTypeFor(tt.name))
		})
	}
}
