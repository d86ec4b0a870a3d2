package tools

// ListFoldersTool lists the folder hierarchy of one account.
type ListFoldersTool struct {
	deps Deps
}

func (t *ListFoldersTool) Name() string {
	return "list_folders"
}

func (t *ListFoldersTool) Description() string {
	return "List the folder hierarchy of an email account"
}

func (t *ListFoldersTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"account_id": map[string]interface{}{
				"type":        "string",
				"description": "Account whose folders to list",
			},
		},
		"required": []string{"account_id"},
	}
}

func (t *ListFoldersTool) Execute(params map[string]interface{}) (interface{}, error) {
	accountID, err := requireString(params, "account_id")
	if err != nil {
		return nil, err
	}

	if _, err := t.deps.ensureSession(accountID); err != nil {
		return nil, err
	}

	folders, err := t.deps.Ops.ListFolders(accountID)
	if err != nil {
		return nil, err
	}
	return folders, nil
}
