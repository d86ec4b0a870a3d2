package tools

import (
	"github.com/brandon/mcp-mailbox/internal/outbound"
)

// ReplyEmailTool fetches the original message and sends a threaded reply.
type ReplyEmailTool struct {
	deps Deps
}

func (t *ReplyEmailTool) Name() string {
	return "reply_email"
}

func (t *ReplyEmailTool) Description() string {
	return "Reply to an email, threading it to the original"
}

func (t *ReplyEmailTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"account_id": map[string]interface{}{
				"type":        "string",
				"description": "Account to reply from",
			},
			"folder": map[string]interface{}{
				"type":        "string",
				"description": "Folder holding the original (default INBOX)",
			},
			"uid": map[string]interface{}{
				"type":        "integer",
				"description": "Uid of the original message",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Plain text body",
			},
			"html": map[string]interface{}{
				"type":        "string",
				"description": "Optional: HTML body",
			},
			"reply_all": map[string]interface{}{
				"type":        "boolean",
				"description": "Reply to all original recipients (default false)",
			},
		},
		"required": []string{"account_id", "uid"},
	}
}

func (t *ReplyEmailTool) Execute(params map[string]interface{}) (interface{}, error) {
	accountID, err := requireString(params, "account_id")
	if err != nil {
		return nil, err
	}
	uid, err := uidParam(params, "uid")
	if err != nil {
		return nil, err
	}
	if uid == 0 {
		return nil, validationError("uid is required")
	}

	acc, err := t.deps.ensureSession(accountID)
	if err != nil {
		return nil, err
	}

	original, err := t.deps.Ops.GetContent(accountID, folderParam(params), uid)
	if err != nil {
		return nil, err
	}

	replyAll, _ := boolParam(params, "reply_all")
	email, err := outbound.ComposeReply(acc, original, outbound.ReplyFields{
		Text:     stringParam(params, "text"),
		HTML:     stringParam(params, "html"),
		ReplyAll: replyAll,
	})
	if err != nil {
		return nil, err
	}

	messageID, err := t.deps.Sender.Send(acc, email)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"message_id": messageID}, nil
}

// ForwardEmailTool fetches the original message and forwards it.
type ForwardEmailTool struct {
	deps Deps
}

func (t *ForwardEmailTool) Name() string {
	return "forward_email"
}

func (t *ForwardEmailTool) Description() string {
	return "Forward an email, optionally re-attaching its attachments"
}

func (t *ForwardEmailTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"account_id": map[string]interface{}{
				"type":        "string",
				"description": "Account to forward from",
			},
			"folder": map[string]interface{}{
				"type":        "string",
				"description": "Folder holding the original (default INBOX)",
			},
			"uid": map[string]interface{}{
				"type":        "integer",
				"description": "Uid of the original message",
			},
			"to": map[string]interface{}{
				"type":        "string",
				"description": "Recipient address(es), comma-separated",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Lead-in text placed above the forwarded message",
			},
			"include_attachments": map[string]interface{}{
				"type":        "boolean",
				"description": "Re-attach the original attachments (default false)",
			},
		},
		"required": []string{"account_id", "uid", "to"},
	}
}

func (t *ForwardEmailTool) Execute(params map[string]interface{}) (interface{}, error) {
	accountID, err := requireString(params, "account_id")
	if err != nil {
		return nil, err
	}
	uid, err := uidParam(params, "uid")
	if err != nil {
		return nil, err
	}
	if uid == 0 {
		return nil, validationError("uid is required")
	}

	acc, err := t.deps.ensureSession(accountID)
	if err != nil {
		return nil, err
	}

	original, err := t.deps.Ops.GetContent(accountID, folderParam(params), uid)
	if err != nil {
		return nil, err
	}

	includeAttachments, _ := boolParam(params, "include_attachments")
	email, err := outbound.ComposeForward(acc, original, outbound.ForwardFields{
		To:                 stringListParam(params, "to"),
		Text:               stringParam(params, "text"),
		IncludeAttachments: includeAttachments,
	})
	if err != nil {
		return nil, err
	}

	messageID, err := t.deps.Sender.Send(acc, email)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"message_id": messageID}, nil
}
