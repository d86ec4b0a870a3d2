package outbound

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

// ComposeFields carries caller-supplied fields for a new message.
type ComposeFields struct {
	To      []string
	Cc      []string
	Bcc     []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string

	Attachments []AttachmentField
}

// AttachmentField is one attachment as supplied by the caller, with its
// payload base64-encoded.
type AttachmentField struct {
	Filename      string
	ContentBase64 string
	ContentType   string
}

// ReplyFields carries caller-supplied fields for a reply.
type ReplyFields struct {
	Text     string
	HTML     string
	ReplyAll bool
}

// ForwardFields carries caller-supplied fields for a forward.
type ForwardFields struct {
	To                 []string
	Text               string
	IncludeAttachments bool
}

// Compose builds a new outbound message for the account. The sender is
// always the account's authenticated user; attachment payloads are decoded
// to raw bytes before handoff.
func Compose(acc *types.Account, fields ComposeFields) (*types.OutboundEmail, error) {
	if len(fields.To) == 0 {
		return nil, &types.ValidationError{Reason: "at least one recipient is required"}
	}
	if fields.Text == "" && fields.HTML == "" {
		return nil, &types.ValidationError{Reason: "either text or html body is required"}
	}

	email := &types.OutboundEmail{
		From:    acc.Username,
		To:      fields.To,
		Cc:      fields.Cc,
		Bcc:     fields.Bcc,
		ReplyTo: fields.ReplyTo,
		Subject: fields.Subject,
		Text:    fields.Text,
		HTML:    fields.HTML,
	}

	for _, att := range fields.Attachments {
		content, err := base64.StdEncoding.DecodeString(att.ContentBase64)
		if err != nil {
			return nil, &types.ValidationError{Reason: fmt.Sprintf("attachment %s is not valid base64", att.Filename)}
		}
		email.Attachments = append(email.Attachments, types.OutboundAttachment{
			Filename:    att.Filename,
			Content:     content,
			ContentType: att.ContentType,
		})
	}

	return email, nil
}

// ComposeReply builds a reply to the original message. The recipient is the
// original sender; with ReplyAll every original recipient except the acting
// account's own address is added, de-duplicated. Threading headers link the
// reply to the original.
func ComposeReply(acc *types.Account, original *types.EmailContent, fields ReplyFields) (*types.OutboundEmail, error) {
	if original.From == "" {
		return nil, &types.ValidationError{Reason: "original message has no sender"}
	}
	if fields.Text == "" && fields.HTML == "" {
		return nil, &types.ValidationError{Reason: "either text or html body is required"}
	}

	to := []string{original.From}
	if fields.ReplyAll {
		seen := map[string]bool{strings.ToLower(original.From): true}
		for _, rcpt := range original.To {
			if rcpt == "" || strings.EqualFold(rcpt, acc.Username) {
				continue
			}
			key := strings.ToLower(rcpt)
			if seen[key] {
				continue
			}
			seen[key] = true
			to = append(to, rcpt)
		}
	}

	return &types.OutboundEmail{
		From:       acc.Username,
		To:         to,
		Subject:    ensurePrefix(original.Subject, "Re: "),
		Text:       fields.Text,
		HTML:       fields.HTML,
		InReplyTo:  original.MessageID,
		References: original.MessageID,
	}, nil
}

// ComposeForward builds a forward of the original message: the caller's
// lead-in text, a banner describing the original, then the original plain
// body. The original HTML passes through unchanged. Original attachments
// are re-attached when IncludeAttachments is set.
func ComposeForward(acc *types.Account, original *types.EmailContent, fields ForwardFields) (*types.OutboundEmail, error) {
	if len(fields.To) == 0 {
		return nil, &types.ValidationError{Reason: "at least one recipient is required"}
	}

	email := &types.OutboundEmail{
		From:       acc.Username,
		To:         fields.To,
		Subject:    ensurePrefix(original.Subject, "Fwd: "),
		Text:       fields.Text + forwardBanner(original) + original.TextContent,
		HTML:       original.HTMLContent,
		References: original.MessageID,
	}

	if fields.IncludeAttachments {
		for _, att := range original.Attachments {
			email.Attachments = append(email.Attachments, types.OutboundAttachment{
				Filename:    att.Filename,
				Content:     att.Content,
				ContentType: att.ContentType,
			})
		}
	}

	return email, nil
}

// ensurePrefix prepends prefix unless the subject already starts with it.
// The match is exact and case-sensitive, so "Re: Re: X" never appears.
func ensurePrefix(subject, prefix string) string {
	if strings.HasPrefix(subject, prefix) {
		return subject
	}
	return prefix + subject
}

func forwardBanner(original *types.EmailContent) string {
	var b strings.Builder
	b.WriteString("\n\n---------- Forwarded message ----------\n")
	fmt.Fprintf(&b, "From: %s\n", original.From)
	fmt.Fprintf(&b, "Date: %s\n", original.Date.Format("Mon, 2 Jan 2006 15:04:05 -0700"))
	fmt.Fprintf(&b, "Subject: %s\n", original.Subject)
	fmt.Fprintf(&b, "To: %s\n\n", strings.Join(original.To, ", "))
	return b.String()
}
