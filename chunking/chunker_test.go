package chunking

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinChunks(t *testing.T, text string, max int) string {
	t.Helper()
	chunks, err := Split(text, max)
	require.NoError(t, err)
	var b strings.Builder
	for i, c := range chunks {
		assert.NotEmpty(t, c.Text)
		assert.LessOrEqual(t, len([]rune(c.Text)), max)
		assert.Equal(t, i, c.Index)
		assert.Equal(t, len(chunks), c.Total)
		assert.Equal(t, i == 0, c.IsFirst)
		assert.Equal(t, i == len(chunks)-1, c.IsLast)
		b.WriteString(c.Text)
	}
	return b.String()
}

func TestSplit_Empty(t *testing.T) {
	chunks, err := Split("", 100)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_ShortTextIsOneChunk(t *testing.T) {
	chunks, err := Split("Education\n\nPhD, 2010", 100)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.True(t, chunks[0].IsFirst)
	assert.True(t, chunks[0].IsLast)
}

func TestSplit_InvalidSize(t *testing.T) {
	_, err := Split("abc", 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	text := "aaaa aaaa\nbbbb\n\ncccc dddd eeee"
	chunks, err := Split(text, 20)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, "aaaa aaaa\nbbbb\n\n", chunks[0].Text)
}

func TestSplit_FallsBackToLineThenSpace(t *testing.T) {
	chunks, err := Split("aaaa aaaa\nbbbbbbbbbbbbbbb", 15)
	require.NoError(t, err)
	assert.Equal(t, "aaaa aaaa\n", chunks[0].Text)

	chunks, err = Split("aaaa aaaa bbbbbbbbbbbbbbb", 12)
	require.NoError(t, err)
	assert.Equal(t, "aaaa aaaa ", chunks[0].Text)
}

func TestSplit_HardCutWhenNoBoundaryInWindow(t *testing.T) {
	chunks, err := Split("a "+strings.Repeat("x", 30), 10)
	require.NoError(t, err)
	assert.Equal(t, "a xxxxxxxx", chunks[0].Text)
}

func TestSplit_CountsRunes(t *testing.T) {
	text := strings.Repeat("é", 25)
	assert.Equal(t, text, joinChunks(t, text, 10))
}

func TestSplit_ReconstructsText(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abc de\n\nfü ß\t")
	for range 200 {
		n := rng.Intn(400)
		runes := make([]rune, n)
		for i := range runes {
			runes[i] = alphabet[rng.Intn(len(alphabet))]
		}
		text := string(runes)
		max := 1 + rng.Intn(60)
		assert.Equal(t, text, joinChunks(t, text, max))
	}
}

func TestSplit_PreservesInvalidUTF8(t *testing.T) {
	text := "Award \xff\xfe 2019\n\nResident 2015"
	assert.Equal(t, text, joinChunks(t, text, 10))

	chunks, err := Split(text, 10)
	require.NoError(t, err)
	assert.Equal(t, "Award \xff\xfe ", chunks[0].Text)
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet.\n", 50)
	a, err := Split(text, 100)
	require.NoError(t, err)
	b, err := Split(text, 100)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
