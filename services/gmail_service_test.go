package services

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"google.golang.org/api/gmail/v1"
)

func b64url(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestParseGmailMessage(t *testing.T) {
	msg := &gmail.Message{
		Id: "msg-1",
		Payload: &gmail.MessagePart{
			MimeType: "text/html",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Your order from Truffles is confirmed"},
				{Name: "Date", Value: "Mon, 12 Jan 2026 13:36:00 +0530"},
			},
			Body: &gmail.MessagePartBody{Data: b64url("<html><body>order details</body></html>")},
		},
	}

	email, ok := parseGmailMessage(msg)

	require.True(t, ok)
	assert.Equal(t, "msg-1", email.ID)
	assert.Equal(t, "Your order from Truffles is confirmed", email.Subject)
	assert.Contains(t, email.Body, "order details")
	assert.Equal(t, 2026, email.Date.Year())
	assert.Equal(t, 12, email.Date.Day())
}

func TestParseGmailMessage_NoPayload(t *testing.T) {
	_, ok := parseGmailMessage(&gmail.Message{Id: "empty"})
	assert.False(t, ok)
}

func TestExtractBody_PrefersHTMLPart(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64url("plain version")}},
			{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: b64url("<html>rich version</html>")}},
		},
	}

	assert.Equal(t, "<html>rich version</html>", extractBody(payload))
}

func TestExtractBody_NestedMultipart(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: b64url("<html>nested bill</html>")}},
				},
			},
		},
	}

	assert.Equal(t, "<html>nested bill</html>", extractBody(payload))
}

func TestExtractBody_PlainOnlyFallback(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{Data: b64url("text only bill")},
	}

	assert.Equal(t, "text only bill", extractBody(payload))
}

func TestDecodeBase64URL(t *testing.T) {
	assert.Equal(t, "hello", decodeBase64URL(base64.URLEncoding.EncodeToString([]byte("hello"))))
	assert.Equal(t, "hello", decodeBase64URL(base64.RawURLEncoding.EncodeToString([]byte("hello"))))
	assert.Empty(t, decodeBase64URL("%%% not base64 %%%"))
}
