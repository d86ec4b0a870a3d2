package mailbox

import (
	"errors"
	"io"
	"testing"

	"github.com/emersion/go-imap"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

// fakeSession scripts responses and records mutating calls.
type fakeSession struct {
	selected  string
	selectErr error

	allUids    []uint32
	searchUids []uint32
	searchErr  error

	summaries []*types.EmailMessage
	fetchErr  error
	fetched   [][]uint32

	content    *types.EmailContent
	contentErr error

	addFlagsErr   error
	addedFlags    []string
	removedFlags  []string
	expungeErr    error
	expunged      []uint32
	moveErr       error
	movedTo       string
	movedUids     []uint32
	folders       []*types.Folder
	foldersErr    error
	closed        bool
}

func (f *fakeSession) SelectFolder(name string) error {
	if f.selectErr != nil {
		return f.selectErr
	}
	f.selected = name
	return nil
}

func (f *fakeSession) SelectedFolder() string {
	return f.selected
}

func (f *fakeSession) ListFolders() ([]*types.Folder, error) {
	return f.folders, f.foldersErr
}

func (f *fakeSession) SearchUids(terms []SearchTerm) ([]uint32, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(terms) == 1 && terms[0].Name == "ALL" {
		return f.allUids, nil
	}
	return f.searchUids, nil
}

func (f *fakeSession) FetchSummaries(uids []uint32) ([]*types.EmailMessage, error) {
	f.fetched = append(f.fetched, uids)
	return f.summaries, f.fetchErr
}

func (f *fakeSession) FetchContent(uid uint32) (*types.EmailContent, error) {
	return f.content, f.contentErr
}

func (f *fakeSession) AddFlags(uids []uint32, flags ...string) error {
	if f.addFlagsErr != nil {
		return f.addFlagsErr
	}
	f.addedFlags = append(f.addedFlags, flags...)
	return nil
}

func (f *fakeSession) RemoveFlags(uids []uint32, flags ...string) error {
	f.removedFlags = append(f.removedFlags, flags...)
	return nil
}

func (f *fakeSession) Expunge(uids []uint32) error {
	if f.expungeErr != nil {
		return f.expungeErr
	}
	f.expunged = append(f.expunged, uids...)
	return nil
}

func (f *fakeSession) Move(uids []uint32, dest string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.movedTo = dest
	f.movedUids = uids
	return nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testPool(t *testing.T, s Session) *Pool {
	t.Helper()

	pool := NewPool(testLogger())
	pool.dial = func(acc *types.Account, logger *logrus.Logger) (Session, error) {
		return s, nil
	}
	err := pool.Connect(&types.Account{ID: "acc1", Host: "imap.example.com", Port: 993})
	assert.NoError(t, err)
	return pool
}

func TestSearch_FetchesSummariesForHits(t *testing.T) {
	session := &fakeSession{
		searchUids: []uint32{2},
		summaries: []*types.EmailMessage{
			{UID: 2, Subject: "unread", Flags: []string{}},
		},
	}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	results, err := ops.Search("acc1", "INBOX", Criteria{Seen: boolPtr(false)})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, uint32(2), results[0].UID)
	assert.Equal(t, "INBOX", session.selected)
	assert.Equal(t, [][]uint32{{2}}, session.fetched)
}

func TestSearch_NoHitsSkipsFetch(t *testing.T) {
	session := &fakeSession{searchUids: nil}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	results, err := ops.Search("acc1", "INBOX", Criteria{Seen: boolPtr(false)})

	assert.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, session.fetched)
}

func TestSearch_NoSessionForAccount(t *testing.T) {
	pool := NewPool(testLogger())
	ops := NewOperations(pool, nil, testLogger())

	_, err := ops.Search("ghost", "INBOX", Criteria{})

	var noSession *types.NoActiveSessionError
	assert.ErrorAs(t, err, &noSession)
	assert.Equal(t, "ghost", noSession.AccountID)
}

func TestGetContent_MissingMessage(t *testing.T) {
	session := &fakeSession{content: nil}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	_, err := ops.GetContent("acc1", "INBOX", 42)

	var notFound *types.MessageNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, uint32(42), notFound.UID)
}

func TestGetContent_ReturnsParsedBody(t *testing.T) {
	session := &fakeSession{
		content: &types.EmailContent{
			EmailMessage: types.EmailMessage{UID: 7, Subject: "hi"},
			TextContent:  "hello",
			Attachments:  []types.Attachment{},
		},
	}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	content, err := ops.GetContent("acc1", "INBOX", 7)

	assert.NoError(t, err)
	assert.Equal(t, "hello", content.TextContent)
	assert.Empty(t, content.HTMLContent)
	assert.Empty(t, content.Attachments)
}

func TestMarkRead_RejectsBatchWithUnknownUid(t *testing.T) {
	session := &fakeSession{allUids: []uint32{1, 2, 3}}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	err := ops.MarkRead("acc1", "INBOX", 0, []uint32{1, 2, 99})

	var partial *types.PartialBatchError
	assert.ErrorAs(t, err, &partial)
	assert.Equal(t, []uint32{99}, partial.Missing)
	assert.Empty(t, session.addedFlags, "no store command may run for a rejected batch")
}

func TestMarkRead_StoresSeenFlag(t *testing.T) {
	session := &fakeSession{allUids: []uint32{1, 2, 3}}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	err := ops.MarkRead("acc1", "INBOX", 0, []uint32{1, 3})

	assert.NoError(t, err)
	assert.Equal(t, []string{imap.SeenFlag}, session.addedFlags)
}

func TestMarkUnread_RemovesSeenFlag(t *testing.T) {
	session := &fakeSession{allUids: []uint32{5}}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	err := ops.MarkUnread("acc1", "INBOX", 5, nil)

	assert.NoError(t, err)
	assert.Equal(t, []string{imap.SeenFlag}, session.removedFlags)
}

func TestMutateFlags_RequiresTargets(t *testing.T) {
	session := &fakeSession{}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	err := ops.MarkRead("acc1", "INBOX", 0, nil)

	var validation *types.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestDelete_FlagsAndExpunges(t *testing.T) {
	session := &fakeSession{allUids: []uint32{1, 2}}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	err := ops.Delete("acc1", "Junk", 0, []uint32{1, 2})

	assert.NoError(t, err)
	assert.Equal(t, []string{imap.DeletedFlag}, session.addedFlags)
	assert.Equal(t, []uint32{1, 2}, session.expunged)
}

func TestDelete_RevertsFlagsWhenExpungeFails(t *testing.T) {
	session := &fakeSession{
		allUids:    []uint32{1},
		expungeErr: errors.New("expunge rejected"),
	}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	err := ops.Delete("acc1", "INBOX", 1, nil)

	assert.ErrorContains(t, err, "expunge rejected")
	assert.Equal(t, []string{imap.DeletedFlag}, session.removedFlags, "deleted flag must be reverted")
}

func TestMove_ReportsMissingDestination(t *testing.T) {
	session := &fakeSession{
		allUids: []uint32{1},
		moveErr: errors.New("no such mailbox"),
	}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	err := ops.Move("acc1", "INBOX", 1, nil, "Nonexistent")

	var folderErr *types.FolderNotFoundError
	assert.ErrorAs(t, err, &folderErr)
	assert.Equal(t, "Nonexistent", folderErr.Folder)
}

func TestMove_TransfersBatch(t *testing.T) {
	session := &fakeSession{allUids: []uint32{4, 5, 6}}
	ops := NewOperations(testPool(t, session), nil, testLogger())

	err := ops.Move("acc1", "INBOX", 0, []uint32{4, 6}, "Archive")

	assert.NoError(t, err)
	assert.Equal(t, "Archive", session.movedTo)
	assert.Equal(t, []uint32{4, 6}, session.movedUids)
}
