package tools

import (
	"fmt"
	"time"

	"github.com/brandon/mcp-mailbox/internal/cache"
	"github.com/brandon/mcp-mailbox/internal/mailbox"
)

// SearchEmailsTool searches a folder live over IMAP, or the local summary
// cache when asked.
type SearchEmailsTool struct {
	deps Deps
}

func (t *SearchEmailsTool) Name() string {
	return "search_emails"
}

func (t *SearchEmailsTool) Description() string {
	return "Search emails in a folder with flexible filters (sender, recipient, subject, body, date range, flags)"
}

func (t *SearchEmailsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"account_id": map[string]interface{}{
				"type":        "string",
				"description": "Account to search",
			},
			"folder": map[string]interface{}{
				"type":        "string",
				"description": "Folder to search (default INBOX)",
			},
			"from": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Filter by sender (substring)",
			},
			"to": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Filter by recipient (substring)",
			},
			"subject": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Filter by subject (substring)",
			},
			"body": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Filter by body content",
			},
			"since": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Only messages on or after this date (RFC 3339)",
			},
			"before": map[string]interface{}{
				"type":        "string",
				"description": "Optional: Only messages before this date (RFC 3339)",
			},
			"seen": map[string]interface{}{
				"type":        "boolean",
				"description": "Optional: Filter on the seen flag",
			},
			"flagged": map[string]interface{}{
				"type":        "boolean",
				"description": "Optional: Filter on the flagged flag",
			},
			"answered": map[string]interface{}{
				"type":        "boolean",
				"description": "Optional: Filter on the answered flag",
			},
			"draft": map[string]interface{}{
				"type":        "boolean",
				"description": "Optional: Filter on the draft flag",
			},
			"cached": map[string]interface{}{
				"type":        "boolean",
				"description": "Optional: Search the local cache instead of the server",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Optional: Result limit",
				"minimum":     1,
				"maximum":     1000,
			},
		},
		"required": []string{"account_id"},
	}
}

func (t *SearchEmailsTool) Execute(params map[string]interface{}) (interface{}, error) {
	accountID, err := requireString(params, "account_id")
	if err != nil {
		return nil, err
	}

	limit := intParam(params, "limit")
	if limit <= 0 {
		limit = t.deps.Config.SearchResultLimit
	}

	if cached, _ := boolParam(params, "cached"); cached {
		return t.searchCache(accountID, params, limit)
	}

	criteria := mailbox.Criteria{
		From:    stringParam(params, "from"),
		To:      stringParam(params, "to"),
		Subject: stringParam(params, "subject"),
		Body:    stringParam(params, "body"),
	}

	if since := stringParam(params, "since"); since != "" {
		d, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return nil, fmt.Errorf("invalid since date: %w", err)
		}
		criteria.Since = d
	}
	if before := stringParam(params, "before"); before != "" {
		d, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return nil, fmt.Errorf("invalid before date: %w", err)
		}
		criteria.Before = d
	}

	for key, target := range map[string]**bool{
		"seen":     &criteria.Seen,
		"flagged":  &criteria.Flagged,
		"answered": &criteria.Answered,
		"draft":    &criteria.Draft,
	} {
		if v, ok := boolParam(params, key); ok {
			value := v
			*target = &value
		}
	}

	folder := folderParam(params)
	if _, err := t.deps.ensureSession(accountID); err != nil {
		return nil, err
	}

	messages, err := t.deps.Ops.Search(accountID, folder, criteria)
	if err != nil {
		return nil, err
	}
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

func (t *SearchEmailsTool) searchCache(accountID string, params map[string]interface{}, limit int) (interface{}, error) {
	opts := cache.SearchOptions{
		AccountID: &accountID,
		Limit:     limit,
	}

	if folder := stringParam(params, "folder"); folder != "" {
		opts.Folder = &folder
	}
	if sender := stringParam(params, "from"); sender != "" {
		opts.Sender = &sender
	}
	if subject := stringParam(params, "subject"); subject != "" {
		opts.Subject = &subject
	}
	if body := stringParam(params, "body"); body != "" {
		opts.Text = &body
	}
	if since := stringParam(params, "since"); since != "" {
		d, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return nil, fmt.Errorf("invalid since date: %w", err)
		}
		opts.DateFrom = &d
	}
	if before := stringParam(params, "before"); before != "" {
		d, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return nil, fmt.Errorf("invalid before date: %w", err)
		}
		opts.DateTo = &d
	}

	return t.deps.Cache.Search(opts)
}
