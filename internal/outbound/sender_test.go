package outbound

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

func TestBuildMessage_PlainText(t *testing.T) {
	raw, err := buildMessage(&types.OutboundEmail{
		From:    "me@example.com",
		To:      []string{"bob@example.com"},
		Subject: "hello",
		Text:    "plain body",
	}, "<id-1@example.com>")

	require.NoError(t, err)
	msg := string(raw)
	assert.Contains(t, msg, "From: me@example.com\r\n")
	assert.Contains(t, msg, "To: bob@example.com\r\n")
	assert.Contains(t, msg, "Subject: hello\r\n")
	assert.Contains(t, msg, "Message-ID: <id-1@example.com>\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=utf-8\r\n")
	assert.Contains(t, msg, "plain body")
}

func TestBuildMessage_TextAndHTMLUseAlternative(t *testing.T) {
	raw, err := buildMessage(&types.OutboundEmail{
		From:    "me@example.com",
		To:      []string{"bob@example.com"},
		Subject: "hello",
		Text:    "plain body",
		HTML:    "<p>rich body</p>",
	}, "<id-2@example.com>")

	require.NoError(t, err)
	msg := string(raw)
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "plain body")
	assert.Contains(t, msg, "<p>rich body</p>")
}

func TestBuildMessage_BccNeverInHeaders(t *testing.T) {
	raw, err := buildMessage(&types.OutboundEmail{
		From:    "me@example.com",
		To:      []string{"bob@example.com"},
		Bcc:     []string{"hidden@example.com"},
		Subject: "hello",
		Text:    "body",
	}, "<id-3@example.com>")

	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hidden@example.com")
}

func TestBuildMessage_ThreadingHeaders(t *testing.T) {
	raw, err := buildMessage(&types.OutboundEmail{
		From:       "me@example.com",
		To:         []string{"bob@example.com"},
		Subject:    "Re: hello",
		Text:       "body",
		InReplyTo:  "<orig@example.com>",
		References: "<orig@example.com>",
	}, "<id-4@example.com>")

	require.NoError(t, err)
	msg := string(raw)
	assert.Contains(t, msg, "In-Reply-To: <orig@example.com>\r\n")
	assert.Contains(t, msg, "References: <orig@example.com>\r\n")
}

func TestBuildMessage_AttachmentsUseMixed(t *testing.T) {
	raw, err := buildMessage(&types.OutboundEmail{
		From:    "me@example.com",
		To:      []string{"bob@example.com"},
		Subject: "hello",
		Text:    "body",
		Attachments: []types.OutboundAttachment{
			{Filename: "a.txt", Content: []byte("payload"), ContentType: "text/plain"},
		},
	}, "<id-5@example.com>")

	require.NoError(t, err)
	msg := string(raw)
	assert.Contains(t, msg, "multipart/mixed")
	assert.Contains(t, msg, `Content-Disposition: attachment; filename="a.txt"`)
	assert.Contains(t, msg, "Content-Transfer-Encoding: base64")
	assert.Contains(t, msg, "cGF5bG9hZA==")
	assert.NotContains(t, msg, "\r\npayload\r\n", "attachment payload must not appear unencoded")
}

func TestBuildMessage_AttachmentDefaultsContentType(t *testing.T) {
	raw, err := buildMessage(&types.OutboundEmail{
		From:        "me@example.com",
		To:          []string{"bob@example.com"},
		Subject:     "hello",
		Text:        "body",
		Attachments: []types.OutboundAttachment{{Filename: "blob", Content: []byte{1, 2, 3}}},
	}, "<id-6@example.com>")

	require.NoError(t, err)
	assert.Contains(t, string(raw), "application/octet-stream")
}

func TestWriteBase64_WrapsAt76Columns(t *testing.T) {
	var b strings.Builder
	err := writeBase64(&b, make([]byte, 100))

	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimRight(b.String(), "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
}
