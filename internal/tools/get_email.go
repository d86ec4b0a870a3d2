package tools

// GetEmailTool fetches one message's full content from the server.
type GetEmailTool struct {
	deps Deps
}

func (t *GetEmailTool) Name() string {
	return "get_email"
}

func (t *GetEmailTool) Description() string {
	return "Fetch the full content of one email (text, HTML, attachment list)"
}

func (t *GetEmailTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"account_id": map[string]interface{}{
				"type":        "string",
				"description": "Account holding the message",
			},
			"folder": map[string]interface{}{
				"type":        "string",
				"description": "Folder holding the message (default INBOX)",
			},
			"uid": map[string]interface{}{
				"type":        "integer",
				"description": "Message uid (from search results)",
			},
		},
		"required": []string{"account_id", "uid"},
	}
}

func (t *GetEmailTool) Execute(params map[string]interface{}) (interface{}, error) {
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
	folder := folderParam(params)

	if _, err := t.deps.ensureSession(accountID); err != nil {
		return nil, err
	}

	content, err := t.deps.Ops.GetContent(accountID, folder, uid)
	if err != nil {
		return nil, err
	}

	// Feed the body into the cache so full-text search covers it.
	if content.TextContent != "" {
		if err := t.deps.Cache.UpsertBody(accountID, folder, uid, content.TextContent); err != nil {
			t.deps.Logger.WithError(err).WithField("uid", uid).Warn("Could not cache message body")
		}
	}

	return content, nil
}
