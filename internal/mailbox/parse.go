package mailbox

import (
	"bytes"
	"fmt"
	"io"

	"github.com/emersion/go-imap"
	"github.com/jhillyerd/enmime"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

// messageSummary maps a protocol message into the typed summary. The
// loosely-typed envelope never crosses further into the core.
func messageSummary(msg *imap.Message) *types.EmailMessage {
	summary := &types.EmailMessage{
		UID:   msg.Uid,
		To:    []string{},
		Flags: append([]string{}, msg.Flags...),
	}

	if msg.Envelope == nil {
		return summary
	}

	summary.Date = msg.Envelope.Date
	summary.Subject = msg.Envelope.Subject
	summary.MessageID = msg.Envelope.MessageId
	summary.InReplyTo = msg.Envelope.InReplyTo

	if len(msg.Envelope.From) > 0 {
		summary.From = msg.Envelope.From[0].Address()
	}
	for _, to := range msg.Envelope.To {
		summary.To = append(summary.To, to.Address())
	}

	return summary
}

// parseContent maps a full fetch response into structured content,
// delegating MIME parsing to enmime. A message with no body section
// resolves to nil so the caller can report it as not found.
func parseContent(msg *imap.Message, section *imap.BodySectionName) (*types.EmailContent, error) {
	if msg == nil {
		return nil, nil
	}

	content := &types.EmailContent{
		EmailMessage: *messageSummary(msg),
		Attachments:  []types.Attachment{},
	}

	literal := msg.GetBody(section)
	if literal == nil {
		return nil, nil
	}

	raw, err := io.ReadAll(literal)
	if err != nil {
		return nil, fmt.Errorf("could not read message body: %w", err)
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		// Unparseable structure: surface the raw payload as plain text
		// rather than dropping the message.
		content.TextContent = string(raw)
		return content, nil
	}

	content.TextContent = env.Text
	content.HTMLContent = env.HTML

	for _, part := range env.Attachments {
		content.Attachments = append(content.Attachments, types.Attachment{
			Filename:    part.FileName,
			ContentType: part.ContentType,
			Size:        len(part.Content),
			ContentID:   part.ContentID,
			Content:     part.Content,
		})
	}

	return content, nil
}
