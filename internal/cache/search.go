package cache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SearchOptions contains cached-search parameters. Nil fields are not
// filtered on.
type SearchOptions struct {
	AccountID *string
	Folder    *string
	Sender    *string
	Subject   *string
	Text      *string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
}

// CachedSummary is one cached search hit.
type CachedSummary struct {
	AccountID string    `json:"account_id"`
	Folder    string    `json:"folder"`
	UID       uint32    `json:"uid"`
	MessageID string    `json:"message_id"`
	Subject   string    `json:"subject"`
	Sender    string    `json:"sender"`
	Date      time.Time `json:"date"`
	Snippet   string    `json:"snippet,omitempty"`
}

// Search queries the cached summaries; Text runs against the FTS index.
func (s *Store) Search(opts SearchOptions) ([]CachedSummary, error) {
	var conditions []string
	var args []interface{}

	if opts.AccountID != nil {
		conditions = append(conditions, "m.account_id = ?")
		args = append(args, *opts.AccountID)
	}
	if opts.Folder != nil {
		conditions = append(conditions, "m.folder = ?")
		args = append(args, *opts.Folder)
	}
	if opts.Sender != nil {
		conditions = append(conditions, "m.sender LIKE ?")
		args = append(args, "%"+*opts.Sender+"%")
	}
	if opts.Subject != nil {
		conditions = append(conditions, "m.subject LIKE ?")
		args = append(args, "%"+*opts.Subject+"%")
	}
	if opts.DateFrom != nil {
		conditions = append(conditions, "m.date >= ?")
		args = append(args, opts.DateFrom)
	}
	if opts.DateTo != nil {
		conditions = append(conditions, "m.date <= ?")
		args = append(args, opts.DateTo)
	}
	if opts.Text != nil {
		conditions = append(conditions, "m.id IN (SELECT rowid FROM messages_fts WHERE messages_fts MATCH ?)")
		query := strings.ReplaceAll(*opts.Text, "\"", "\"\"")
		query = strings.ReplaceAll(query, "'", "''")
		args = append(args, query)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	query := fmt.Sprintf(`
		SELECT m.account_id, m.folder, m.uid, m.message_id, m.subject, m.sender, m.date, m.body_text
		FROM messages m
		%s
		ORDER BY m.date DESC
		LIMIT ?
	`, whereClause)
	args = append(args, limit)

	rows, err := s.cache.DB().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search cache: %w", err)
	}
	defer rows.Close()

	var results []CachedSummary
	for rows.Next() {
		var summary CachedSummary
		var dateStr sql.NullString
		var bodyText sql.NullString

		err := rows.Scan(
			&summary.AccountID,
			&summary.Folder,
			&summary.UID,
			&summary.MessageID,
			&summary.Subject,
			&summary.Sender,
			&dateStr,
			&bodyText,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		if dateStr.Valid {
			summary.Date = parseCachedDate(dateStr.String)
		}

		if bodyText.Valid && len(bodyText.String) > 0 {
			snippet := bodyText.String
			if len(snippet) > 200 {
				snippet = snippet[:200] + "..."
			}
			summary.Snippet = snippet
		}

		results = append(results, summary)
	}

	return results, rows.Err()
}

func parseCachedDate(value string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02 15:04:05.999999999-07:00"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
