package mailbox

import (
	"fmt"

	"github.com/emersion/go-imap"
	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-mailbox/internal/cache"
	"github.com/brandon/mcp-mailbox/pkg/types"
)

// Operations executes mailbox commands against pooled sessions. Every
// operation re-selects its target folder under the account lock, so no call
// depends on selection state left behind by a previous one.
type Operations struct {
	pool   *Pool
	cache  *cache.Store
	logger *logrus.Logger
}

// NewOperations creates the operations front end. The cache may be nil;
// summary caching is best-effort and never affects results.
func NewOperations(pool *Pool, cacheStore *cache.Store, logger *logrus.Logger) *Operations {
	return &Operations{
		pool:   pool,
		cache:  cacheStore,
		logger: logger,
	}
}

// Search selects the folder, translates the criteria, and fetches summary
// headers for every hit in one batched fetch. Zero hits return an empty
// result without a fetch round trip.
func (o *Operations) Search(accountID, folder string, criteria Criteria) ([]*types.EmailMessage, error) {
	var results []*types.EmailMessage

	err := o.pool.withSession(accountID, func(s Session) error {
		if err := s.SelectFolder(folder); err != nil {
			return err
		}

		uids, err := s.SearchUids(TranslateCriteria(criteria))
		if err != nil {
			return err
		}
		if len(uids) == 0 {
			return nil
		}

		results, err = s.FetchSummaries(uids)
		return err
	})
	if err != nil {
		return nil, err
	}

	o.cacheSummaries(accountID, folder, results)
	return results, nil
}

// GetContent fetches and parses the full body of one message.
func (o *Operations) GetContent(accountID, folder string, uid uint32) (*types.EmailContent, error) {
	var content *types.EmailContent

	err := o.pool.withSession(accountID, func(s Session) error {
		if err := s.SelectFolder(folder); err != nil {
			return err
		}

		var err error
		content, err = s.FetchContent(uid)
		if err != nil {
			return err
		}
		if content == nil {
			return &types.MessageNotFoundError{Folder: folder, UID: uid}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return content, nil
}

// MarkRead sets the seen flag on the target uids in a single store call.
func (o *Operations) MarkRead(accountID, folder string, uid uint32, uids []uint32) error {
	return o.mutateFlags(accountID, folder, uid, uids, true)
}

// MarkUnread clears the seen flag on the target uids.
func (o *Operations) MarkUnread(accountID, folder string, uid uint32, uids []uint32) error {
	return o.mutateFlags(accountID, folder, uid, uids, false)
}

func (o *Operations) mutateFlags(accountID, folder string, uid uint32, uids []uint32, seen bool) error {
	targets, err := resolveUids(uid, uids)
	if err != nil {
		return err
	}

	return o.pool.withSession(accountID, func(s Session) error {
		if err := s.SelectFolder(folder); err != nil {
			return err
		}
		if err := validateBatch(s, folder, targets); err != nil {
			return err
		}

		if seen {
			return s.AddFlags(targets, imap.SeenFlag)
		}
		return s.RemoveFlags(targets, imap.SeenFlag)
	})
}

// Delete flags the targets deleted and expunges them. When the expunge
// fails the deleted flag is reverted best-effort and the expunge error is
// returned regardless of how the revert went.
func (o *Operations) Delete(accountID, folder string, uid uint32, uids []uint32) error {
	targets, err := resolveUids(uid, uids)
	if err != nil {
		return err
	}

	return o.pool.withSession(accountID, func(s Session) error {
		if err := s.SelectFolder(folder); err != nil {
			return err
		}
		if err := validateBatch(s, folder, targets); err != nil {
			return err
		}

		if err := s.AddFlags(targets, imap.DeletedFlag); err != nil {
			return err
		}

		if err := s.Expunge(targets); err != nil {
			if revertErr := s.RemoveFlags(targets, imap.DeletedFlag); revertErr != nil {
				o.logger.WithError(revertErr).WithFields(logrus.Fields{
					"account": accountID,
					"folder":  folder,
				}).Warn("Could not revert deleted flag after failed expunge")
			}
			return fmt.Errorf("could not delete messages: %w", err)
		}
		return nil
	})
}

// Move transfers the targets to the destination folder server-side. After
// uid pre-validation the dominant failure mode of the move command is a
// missing destination, which surfaces as FolderNotFoundError.
func (o *Operations) Move(accountID, folder string, uid uint32, uids []uint32, dest string) error {
	targets, err := resolveUids(uid, uids)
	if err != nil {
		return err
	}

	return o.pool.withSession(accountID, func(s Session) error {
		if err := s.SelectFolder(folder); err != nil {
			return err
		}
		if err := validateBatch(s, folder, targets); err != nil {
			return err
		}

		if err := s.Move(targets, dest); err != nil {
			return &types.FolderNotFoundError{Folder: dest, Cause: err}
		}
		return nil
	})
}

// ListFolders returns the account's folder hierarchy.
func (o *Operations) ListFolders(accountID string) ([]*types.Folder, error) {
	var folders []*types.Folder

	err := o.pool.withSession(accountID, func(s Session) error {
		var err error
		folders, err = s.ListFolders()
		return err
	})
	if err != nil {
		return nil, err
	}

	return folders, nil
}

// resolveUids applies the uid-or-uids convenience overload: a supplied
// sequence wins over a scalar; neither is a validation error.
func resolveUids(uid uint32, uids []uint32) ([]uint32, error) {
	if len(uids) > 0 {
		return uids, nil
	}
	if uid != 0 {
		return []uint32{uid}, nil
	}
	return nil, &types.ValidationError{Reason: "either uid or uids is required"}
}

// validateBatch checks every target uid against the folder's current
// listing before any mutating command is issued. The protocol gives no
// atomicity guarantee for multi-uid store/move/expunge, so membership is
// verified up front and the whole batch rejected on any miss.
func validateBatch(s Session, folder string, targets []uint32) error {
	all, err := s.SearchUids([]SearchTerm{{Name: "ALL"}})
	if err != nil {
		return err
	}

	present := make(map[uint32]bool, len(all))
	for _, uid := range all {
		present[uid] = true
	}

	var missing []uint32
	for _, uid := range targets {
		if !present[uid] {
			missing = append(missing, uid)
		}
	}
	if len(missing) > 0 {
		return &types.PartialBatchError{Folder: folder, Missing: missing}
	}
	return nil
}

// cacheSummaries mirrors search results into the summary cache. Failures
// are logged and never surfaced.
func (o *Operations) cacheSummaries(accountID, folder string, messages []*types.EmailMessage) {
	if o.cache == nil {
		return
	}
	for _, msg := range messages {
		if err := o.cache.UpsertSummary(accountID, folder, msg); err != nil {
			o.logger.WithError(err).WithFields(logrus.Fields{
				"account": accountID,
				"folder":  folder,
				"uid":     msg.UID,
			}).Warn("Could not cache summary")
			return
		}
	}
}
