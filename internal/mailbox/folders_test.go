package mailbox

import (
	"testing"

	"github.com/emersion/go-imap"
	"github.com/stretchr/testify/assert"
)

func TestBuildFolderTree_FlatList(t *testing.T) {
	tree := BuildFolderTree([]*imap.MailboxInfo{
		{Name: "INBOX", Delimiter: "/"},
		{Name: "Sent", Delimiter: "/"},
	})

	assert.Len(t, tree, 2)
	assert.Equal(t, "INBOX", tree[0].Name)
	assert.Equal(t, "Sent", tree[1].Name)
	assert.Empty(t, tree[0].Children)
}

func TestBuildFolderTree_NestedChildrenKeepFullPaths(t *testing.T) {
	tree := BuildFolderTree([]*imap.MailboxInfo{
		{Name: "INBOX", Delimiter: "/"},
		{Name: "INBOX/Receipts", Delimiter: "/"},
		{Name: "INBOX/Receipts/2025", Delimiter: "/"},
	})

	assert.Len(t, tree, 1)
	inbox := tree[0]
	assert.Equal(t, "INBOX", inbox.Name)
	assert.Len(t, inbox.Children, 1)
	receipts := inbox.Children[0]
	assert.Equal(t, "INBOX/Receipts", receipts.Name)
	assert.Len(t, receipts.Children, 1)
	assert.Equal(t, "INBOX/Receipts/2025", receipts.Children[0].Name)
}

func TestBuildFolderTree_SynthesizesMissingParents(t *testing.T) {
	tree := BuildFolderTree([]*imap.MailboxInfo{
		{Name: "Archive/2024", Delimiter: "/"},
	})

	assert.Len(t, tree, 1)
	assert.Equal(t, "Archive", tree[0].Name)
	assert.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Archive/2024", tree[0].Children[0].Name)
}

func TestBuildFolderTree_AttributesOnListedFolderOnly(t *testing.T) {
	tree := BuildFolderTree([]*imap.MailboxInfo{
		{Name: "Junk/Old", Delimiter: "/", Attributes: []string{`\Junk`}},
	})

	assert.Empty(t, tree[0].Attributes)
	assert.Equal(t, []string{`\Junk`}, tree[0].Children[0].Attributes)
}

func TestBuildFolderTree_NilDelimiterTreatsNameAsLeaf(t *testing.T) {
	tree := BuildFolderTree([]*imap.MailboxInfo{
		{Name: "A/B", Delimiter: ""},
	})

	assert.Len(t, tree, 1)
	assert.Equal(t, "A/B", tree[0].Name)
	assert.Empty(t, tree[0].Children)
}

func TestBuildFolderTree_PreservesServerOrder(t *testing.T) {
	tree := BuildFolderTree([]*imap.MailboxInfo{
		{Name: "Zulu", Delimiter: "."},
		{Name: "Alpha", Delimiter: "."},
		{Name: "Mike", Delimiter: "."},
	})

	names := []string{tree[0].Name, tree[1].Name, tree[2].Name}
	assert.Equal(t, []string{"Zulu", "Alpha", "Mike"}, names)
}
