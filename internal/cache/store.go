package cache

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

// Store provides upsert and query access to the summary cache.
type Store struct {
	cache  *Cache
	logger *logrus.Logger
}

// NewStore creates a store over an open cache.
func NewStore(cache *Cache, logger *logrus.Logger) *Store {
	return &Store{
		cache:  cache,
		logger: logger,
	}
}

// UpsertAccount mirrors a credential store record (no credential material
// ever reaches the cache).
func (s *Store) UpsertAccount(acc *types.Account) error {
	query := `
		INSERT INTO accounts (id, display_name, host, username, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			host = excluded.host,
			username = excluded.username,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.cache.DB().Exec(query, acc.ID, acc.DisplayName, acc.Host, acc.Username); err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

// DeleteAccount drops the account and, via cascade, its cached messages.
func (s *Store) DeleteAccount(accountID string) error {
	if _, err := s.cache.DB().Exec("DELETE FROM accounts WHERE id = ?", accountID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// UpsertSummary stores one search result summary.
func (s *Store) UpsertSummary(accountID, folder string, msg *types.EmailMessage) error {
	recipientsJSON, err := json.Marshal(msg.To)
	if err != nil {
		return fmt.Errorf("failed to marshal recipients: %w", err)
	}
	flagsJSON, err := json.Marshal(msg.Flags)
	if err != nil {
		return fmt.Errorf("failed to marshal flags: %w", err)
	}

	query := `
		INSERT INTO messages (account_id, folder, uid, message_id, subject, sender, recipients, date, in_reply_to, flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id, folder, uid) DO UPDATE SET
			message_id = excluded.message_id,
			subject = excluded.subject,
			sender = excluded.sender,
			recipients = excluded.recipients,
			date = excluded.date,
			in_reply_to = excluded.in_reply_to,
			flags = excluded.flags,
			cached_at = CURRENT_TIMESTAMP
	`
	_, err = s.cache.DB().Exec(query,
		accountID,
		folder,
		msg.UID,
		msg.MessageID,
		msg.Subject,
		msg.From,
		string(recipientsJSON),
		msg.Date,
		msg.InReplyTo,
		string(flagsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert message: %w", err)
	}
	return nil
}

// UpsertBody records the plain-text body of an already cached message so
// full-text search covers it. Unknown messages are ignored.
func (s *Store) UpsertBody(accountID, folder string, uid uint32, bodyText string) error {
	query := `
		UPDATE messages SET body_text = ?, cached_at = CURRENT_TIMESTAMP
		WHERE account_id = ? AND folder = ? AND uid = ?
	`
	if _, err := s.cache.DB().Exec(query, bodyText, accountID, folder, uid); err != nil {
		return fmt.Errorf("failed to update message body: %w", err)
	}
	return nil
}
