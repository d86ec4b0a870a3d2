package tools

import (
	"github.com/brandon/mcp-mailbox/internal/outbound"
)

// SendEmailTool composes and sends a new email.
type SendEmailTool struct {
	deps Deps
}

func (t *SendEmailTool) Name() string {
	return "send_email"
}

func (t *SendEmailTool) Description() string {
	return "Send a new email with support for text, HTML, attachments, CC, BCC"
}

func (t *SendEmailTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"account_id": map[string]interface{}{
				"type":        "string",
				"description": "Account to send from",
			},
			"to": map[string]interface{}{
				"type":        "string",
				"description": "Recipient address(es), comma-separated",
			},
			"cc": map[string]interface{}{
				"type":        "string",
				"description": "Optional: CC recipients, comma-separated",
			},
			"bcc": map[string]interface{}{
				"type":        "string",
				"description": "Optional: BCC recipients, comma-separated",
			},
			"subject": map[string]interface{}{
				"type":        "string",
				"description": "Email subject",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Plain text body",
			},
			"html": map[string]interface{}{
				"type":        "string",
				"description": "Optional: HTML body",
			},
			"reply_to": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Reply-To address",
			},
			"attachments": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"filename":       map[string]interface{}{"type": "string"},
						"content_base64": map[string]interface{}{"type": "string"},
						"content_type":   map[string]interface{}{"type": "string"},
					},
					"required": []string{"filename", "content_base64"},
				},
				"description": "Optional: Attachments with base64-encoded content",
			},
		},
		"required": []string{"account_id", "to", "subject"},
	}
}

func (t *SendEmailTool) Execute(params map[string]interface{}) (interface{}, error) {
	accountID, err := requireString(params, "account_id")
	if err != nil {
		return nil, err
	}
	if _, err := requireString(params, "subject"); err != nil {
		return nil, err
	}

	acc, err := t.deps.Accounts.Get(accountID)
	if err != nil {
		return nil, err
	}

	fields := outbound.ComposeFields{
		To:          stringListParam(params, "to"),
		Cc:          stringListParam(params, "cc"),
		Bcc:         stringListParam(params, "bcc"),
		ReplyTo:     stringParam(params, "reply_to"),
		Subject:     stringParam(params, "subject"),
		Text:        stringParam(params, "text"),
		HTML:        stringParam(params, "html"),
		Attachments: attachmentFields(params),
	}

	email, err := outbound.Compose(acc, fields)
	if err != nil {
		return nil, err
	}

	messageID, err := t.deps.Sender.Send(acc, email)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"message_id": messageID}, nil
}

func attachmentFields(params map[string]interface{}) []outbound.AttachmentField {
	items, ok := params["attachments"].([]interface{})
	if !ok {
		return nil
	}

	var fields []outbound.AttachmentField
	for _, item := range items {
		att, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		fields = append(fields, outbound.AttachmentField{
			Filename:      stringParam(att, "filename"),
			ContentBase64: stringParam(att, "content_base64"),
			ContentType:   stringParam(att, "content_type"),
		})
	}
	return fields
}
