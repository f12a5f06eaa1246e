package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrhrm/internal/platform/config"
)

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	mailer := New(config.Config{EmailEnabled: false})
	_, ok := mailer.(noopMailer)
	assert.True(t, ok)
	assert.NoError(t, mailer.Send(context.Background(), Message{To: "a@example.com"}))
}

func TestBuildPlainMessage(t *testing.T) {
	raw, err := buildMessage(Message{From: "hr@example.com", To: "ana@example.com", Subject: "Hello", Body: "body text"})
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "To: ana@example.com\r\n")
	assert.Contains(t, text, "Content-Type: text/plain; charset=\"UTF-8\"")
	assert.True(t, strings.HasSuffix(text, "\r\n\r\nbody text"))
}

func TestBuildMessageWithAttachment(t *testing.T) {
	data := []byte(strings.Repeat("x", 200))
	raw, err := buildMessage(Message{
		From:    "hr@example.com",
		To:      "ana@example.com",
		Subject: "Your badge",
		Body:    "<p>hi</p>",
		HTML:    true,
		Attachments: []Attachment{{
			Filename:    "badge.png",
			ContentType: "image/png",
			ContentID:   "badge",
			Data:        data,
		}},
	})
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "multipart/mixed; boundary=")
	assert.Contains(t, text, "text/html; charset=\"UTF-8\"")
	assert.Contains(t, text, `attachment; filename="badge.png"`)
	assert.Contains(t, text, "Content-Id: <badge>")
	for _, line := range strings.Split(string(wrapBase64(data)), "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
}
