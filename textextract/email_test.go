package textextract

import (
	"context"
	"strings"
	"testing"

	"github.com/poiesic/vitae/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmail_Plain(t *testing.T) {
	raw := strings.Join([]string{
		"From: Program Chair <chair@example.org>",
		"Subject: =?UTF-8?Q?Invitation_=E2=80=93_keynote?=",
		"Date: Mon, 2 Mar 2020 10:00:00 +0000",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"We are pleased to invite you to give the keynote at ICML 2020.",
	}, "\r\n")

	email, err := ParseEmail([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Invitation – keynote", email.Subject)
	assert.Equal(t, "Program Chair <chair@example.org>", email.From)
	assert.Equal(t, "We are pleased to invite you to give the keynote at ICML 2020.", email.Body)
	assert.Contains(t, email.Text(), "Subject: Invitation – keynote\n")
}

func TestParseEmail_MultipartPrefersPlain(t *testing.T) {
	raw := strings.Join([]string{
		"From: a@example.org",
		"Subject: Award",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="xyz"`,
		"",
		"--xyz",
		"Content-Type: text/html",
		"",
		"<p>HTML version</p>",
		"--xyz",
		"Content-Type: text/plain",
		"Content-Transfer-Encoding: base64",
		"",
		"QmVzdCBQYXBlciBBd2FyZA==",
		"--xyz--",
		"",
	}, "\r\n")

	email, err := ParseEmail([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Best Paper Award", email.Body)
}

func TestParseEmail_HTMLOnly(t *testing.T) {
	raw := "Subject: Grant\r\nContent-Type: text/html\r\n\r\n<div>NSF&nbsp;CAREER</div><br>2019"
	email, err := ParseEmail([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "NSF CAREER\n\n2019", email.Body)
}

func TestParseEmail_Invalid(t *testing.T) {
	_, err := ParseEmail([]byte("no header separator"))
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = New().Extract(context.Background(), []byte("no header separator"), MediaTypeEmail)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
