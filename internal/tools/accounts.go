package tools

import (
	"github.com/brandon/mcp-mailbox/pkg/types"
)

// ListAccountsTool lists configured accounts with credentials masked.
type ListAccountsTool struct {
	deps Deps
}

func (t *ListAccountsTool) Name() string {
	return "list_accounts"
}

func (t *ListAccountsTool) Description() string {
	return "List configured email accounts (credentials are never returned)"
}

func (t *ListAccountsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *ListAccountsTool) Execute(params map[string]interface{}) (interface{}, error) {
	accounts, err := t.deps.Accounts.List()
	if err != nil {
		return nil, err
	}

	result := make([]map[string]interface{}, len(accounts))
	for i, acc := range accounts {
		result[i] = map[string]interface{}{
			"account_id":   acc.ID,
			"display_name": acc.DisplayName,
			"host":         acc.Host,
			"port":         acc.Port,
			"username":     acc.Username,
			"tls":          acc.TLS,
			"connected":    t.deps.Pool.Connected(acc.ID),
		}
	}
	return result, nil
}

// AddAccountTool adds a new account to the credential store.
type AddAccountTool struct {
	deps Deps
}

func (t *AddAccountTool) Name() string {
	return "add_account"
}

func (t *AddAccountTool) Description() string {
	return "Add an email account; the credential is encrypted at rest"
}

func (t *AddAccountTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"display_name": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Human-readable account name",
			},
			"host": map[string]interface{}{
				"type":        "string",
				"description": "IMAP server hostname",
			},
			"port": map[string]interface{}{
				"type":        "integer",
				"description": "IMAP server port (usually 993)",
			},
			"username": map[string]interface{}{
				"type":        "string",
				"description": "Login username (usually the email address)",
			},
			"password": map[string]interface{}{
				"type":        "string",
				"description": "Login credential",
			},
			"tls": map[string]interface{}{
				"type":        "boolean",
				"description": "Use implicit TLS (default true)",
			},
			"smtp_host": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Distinct SMTP hostname",
			},
			"smtp_port": map[string]interface{}{
				"type":        "integer",
				"description": "Optional: SMTP port (default 587)",
			},
		},
		"required": []string{"host", "port", "username", "password"},
	}
}

func (t *AddAccountTool) Execute(params map[string]interface{}) (interface{}, error) {
	acc := &types.Account{
		DisplayName: stringParam(params, "display_name"),
		Host:        stringParam(params, "host"),
		Port:        intParam(params, "port"),
		Username:    stringParam(params, "username"),
		Password:    stringParam(params, "password"),
		SMTPHost:    stringParam(params, "smtp_host"),
		SMTPPort:    intParam(params, "smtp_port"),
		TLS:         true,
	}
	if tls, ok := boolParam(params, "tls"); ok {
		acc.TLS = tls
	}

	id, err := t.deps.Accounts.Add(acc)
	if err != nil {
		return nil, err
	}

	acc.ID = id
	if err := t.deps.Cache.UpsertAccount(acc); err != nil {
		t.deps.Logger.WithError(err).WithField("account", id).Warn("Could not cache account")
	}

	return map[string]interface{}{"account_id": id}, nil
}

// RemoveAccountTool removes an account, dropping any live session and its
// cached summaries.
type RemoveAccountTool struct {
	deps Deps
}

func (t *RemoveAccountTool) Name() string {
	return "remove_account"
}

func (t *RemoveAccountTool) Description() string {
	return "Remove an email account and disconnect its session"
}

func (t *RemoveAccountTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"account_id": map[string]interface{}{
				"type":        "string",
				"description": "Account to remove",
			},
		},
		"required": []string{"account_id"},
	}
}

func (t *RemoveAccountTool) Execute(params map[string]interface{}) (interface{}, error) {
	accountID, err := requireString(params, "account_id")
	if err != nil {
		return nil, err
	}

	t.deps.Pool.Disconnect(accountID)

	if err := t.deps.Accounts.Remove(accountID); err != nil {
		return nil, err
	}
	if err := t.deps.Cache.DeleteAccount(accountID); err != nil {
		t.deps.Logger.WithError(err).WithField("account", accountID).Warn("Could not drop cached account")
	}

	return map[string]interface{}{"removed": accountID}, nil
}
