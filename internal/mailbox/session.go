package mailbox

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/emersion/go-imap"
	move "github.com/emersion/go-imap-move"
	uidplus "github.com/emersion/go-imap-uidplus"
	"github.com/emersion/go-imap/client"
	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

// Session is one authenticated protocol connection with its sticky
// server-side folder selection. Implementations are not safe for concurrent
// use; the pool serializes access per account.
type Session interface {
	SelectFolder(name string) error
	SelectedFolder() string
	ListFolders() ([]*types.Folder, error)
	SearchUids(terms []SearchTerm) ([]uint32, error)
	FetchSummaries(uids []uint32) ([]*types.EmailMessage, error)
	FetchContent(uid uint32) (*types.EmailContent, error)
	AddFlags(uids []uint32, flags ...string) error
	RemoveFlags(uids []uint32, flags ...string) error
	Expunge(uids []uint32) error
	Move(uids []uint32, dest string) error
	Close() error
}

// liveSession wraps a go-imap client plus the MOVE and UIDPLUS extension
// clients when the server advertises them.
type liveSession struct {
	conn    *client.Client
	move    *move.Client
	uidplus *uidplus.Client

	moveSupported    bool
	uidplusSupported bool

	selectedFolder string

	logger *logrus.Entry
}

// dialSession opens and authenticates a new session for the account. Plain
// connections are upgraded with STARTTLS before login.
func dialSession(acc *types.Account, logger *logrus.Logger) (Session, error) {
	dialer := &net.Dialer{Timeout: acc.DialTimeout()}
	tlsConfig := &tls.Config{
		ServerName: acc.Host,
		MinVersion: tls.VersionTLS12,
	}

	var conn *client.Client
	var err error
	if acc.TLS {
		conn, err = client.DialWithDialerTLS(dialer, acc.Addr(), tlsConfig)
	} else {
		conn, err = client.DialWithDialer(dialer, acc.Addr())
		if err == nil {
			if startErr := conn.StartTLS(tlsConfig); startErr != nil {
				conn.Logout() //nolint:errcheck
				err = fmt.Errorf("could not start TLS: %w", startErr)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	conn.Timeout = acc.DialTimeout()

	if err := conn.Login(acc.Username, acc.Password); err != nil {
		conn.Logout() //nolint:errcheck
		return nil, fmt.Errorf("could not login: %w", err)
	}

	s := &liveSession{
		conn:    conn,
		move:    move.NewClient(conn),
		uidplus: uidplus.NewClient(conn),
		logger:  logger.WithField("account", acc.ID),
	}

	s.moveSupported, err = s.move.SupportMove()
	if err != nil {
		conn.Logout() //nolint:errcheck
		return nil, fmt.Errorf("could not check for MOVE support: %w", err)
	}
	s.uidplusSupported, err = s.uidplus.SupportUidPlus()
	if err != nil {
		conn.Logout() //nolint:errcheck
		return nil, fmt.Errorf("could not check for UIDPLUS support: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"move":    s.moveSupported,
		"uidplus": s.uidplusSupported,
	}).Debug("Logged in to server")

	return s, nil
}

func (s *liveSession) SelectFolder(name string) error {
	if _, err := s.conn.Select(name, false); err != nil {
		return &types.FolderNotFoundError{Folder: name, Cause: err}
	}
	s.selectedFolder = name
	return nil
}

func (s *liveSession) SelectedFolder() string {
	return s.selectedFolder
}

func (s *liveSession) ListFolders() ([]*types.Folder, error) {
	mailboxes := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.conn.List("", "*", mailboxes)
	}()

	var infos []*imap.MailboxInfo
	for m := range mailboxes {
		infos = append(infos, m)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("could not list folders: %w", err)
	}

	return BuildFolderTree(infos), nil
}

func (s *liveSession) SearchUids(terms []SearchTerm) ([]uint32, error) {
	uids, err := s.conn.UidSearch(buildSearchCriteria(terms))
	if err != nil {
		return nil, fmt.Errorf("could not search folder: %w", err)
	}
	return uids, nil
}

func (s *liveSession) FetchSummaries(uids []uint32) ([]*types.EmailMessage, error) {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)

	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchUid}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.conn.UidFetch(seqset, items, messages)
	}()

	var summaries []*types.EmailMessage
	for msg := range messages {
		summaries = append(summaries, messageSummary(msg))
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("could not fetch summaries: %w", err)
	}

	return summaries, nil
}

func (s *liveSession) FetchContent(uid uint32) (*types.EmailContent, error) {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uid)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.conn.UidFetch(seqset, items, messages)
	}()

	var content *types.EmailContent
	var parseErr error
	for msg := range messages {
		if content != nil {
			continue
		}
		content, parseErr = parseContent(msg, section)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("could not fetch message: %w", err)
	}
	if parseErr != nil {
		return nil, parseErr
	}

	return content, nil
}

func (s *liveSession) AddFlags(uids []uint32, flags ...string) error {
	return s.storeFlags(imap.FormatFlagsOp(imap.AddFlags, true), uids, flags)
}

func (s *liveSession) RemoveFlags(uids []uint32, flags ...string) error {
	return s.storeFlags(imap.FormatFlagsOp(imap.RemoveFlags, true), uids, flags)
}

func (s *liveSession) storeFlags(op imap.StoreItem, uids []uint32, flags []string) error {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)

	values := make([]interface{}, len(flags))
	for i, f := range flags {
		values[i] = f
	}

	if err := s.conn.UidStore(seqset, op, values, nil); err != nil {
		return fmt.Errorf("could not store flags: %w", err)
	}
	return nil
}

// Expunge removes the given deleted-flagged uids. With UIDPLUS only the
// targeted uids are expunged; the fallback EXPUNGE removes every message in
// the folder carrying the deleted flag.
func (s *liveSession) Expunge(uids []uint32) error {
	done := make(chan error, 1)
	expunged := make(chan uint32)

	if s.uidplusSupported {
		seqset := &imap.SeqSet{}
		seqset.AddNum(uids...)
		go func() {
			done <- s.uidplus.UidExpunge(seqset, expunged)
		}()
	} else {
		go func() {
			done <- s.conn.Expunge(expunged)
		}()
	}

	count := 0
	for range expunged {
		count++
	}
	if err := <-done; err != nil {
		return fmt.Errorf("could not expunge: %w", err)
	}

	if count != len(uids) {
		s.logger.WithFields(logrus.Fields{
			"expected": len(uids),
			"got":      count,
		}).Warn("Unexpected expunge count")
	}
	return nil
}

func (s *liveSession) Move(uids []uint32, dest string) error {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)

	if s.moveSupported {
		if err := s.move.UidMove(seqset, dest); err != nil {
			return fmt.Errorf("could not move messages: %w", err)
		}
		return nil
	}

	// Copy and delete fallback for servers without MOVE.
	if err := s.conn.UidCopy(seqset, dest); err != nil {
		return fmt.Errorf("could not copy messages: %w", err)
	}
	if err := s.AddFlags(uids, imap.DeletedFlag); err != nil {
		return err
	}
	return s.Expunge(uids)
}

func (s *liveSession) Close() error {
	return s.conn.Logout()
}
