package mailbox

import (
	"testing"
	"time"

	"github.com/emersion/go-imap"
	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool {
	return &v
}

func TestTranslateCriteria_Empty(t *testing.T) {
	terms := TranslateCriteria(Criteria{})

	assert.Equal(t, []SearchTerm{{Name: "ALL"}}, terms)
}

func TestTranslateCriteria_FieldOrderIsFixed(t *testing.T) {
	since := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)

	terms := TranslateCriteria(Criteria{
		From:    "alice@example.com",
		To:      "bob@example.com",
		Subject: "invoice",
		Body:    "attached",
		Since:   since,
		Before:  before,
		Seen:    boolPtr(false),
		Flagged: boolPtr(true),
	})

	assert.Equal(t, []SearchTerm{
		{Name: "FROM", Value: "alice@example.com"},
		{Name: "TO", Value: "bob@example.com"},
		{Name: "SUBJECT", Value: "invoice"},
		{Name: "BODY", Value: "attached"},
		{Name: "SINCE", Value: "01-Mar-2025"},
		{Name: "BEFORE", Value: "15-Apr-2025"},
		{Name: "UNSEEN"},
		{Name: "FLAGGED"},
	}, terms)
}

func TestTranslateCriteria_TriStateFlags(t *testing.T) {
	assert.Equal(t, []SearchTerm{{Name: "ALL"}}, TranslateCriteria(Criteria{Seen: nil}))
	assert.Equal(t, []SearchTerm{{Name: "SEEN"}}, TranslateCriteria(Criteria{Seen: boolPtr(true)}))
	assert.Equal(t, []SearchTerm{{Name: "UNSEEN"}}, TranslateCriteria(Criteria{Seen: boolPtr(false)}))
	assert.Equal(t, []SearchTerm{{Name: "UNANSWERED"}}, TranslateCriteria(Criteria{Answered: boolPtr(false)}))
	assert.Equal(t, []SearchTerm{{Name: "DRAFT"}}, TranslateCriteria(Criteria{Draft: boolPtr(true)}))
}

func TestBuildSearchCriteria_HeadersAndBody(t *testing.T) {
	criteria := buildSearchCriteria([]SearchTerm{
		{Name: "FROM", Value: "alice@example.com"},
		{Name: "SUBJECT", Value: "invoice"},
		{Name: "BODY", Value: "attached"},
	})

	assert.Equal(t, "alice@example.com", criteria.Header.Get("From"))
	assert.Equal(t, "invoice", criteria.Header.Get("Subject"))
	assert.Equal(t, []string{"attached"}, criteria.Body)
}

func TestBuildSearchCriteria_Dates(t *testing.T) {
	criteria := buildSearchCriteria([]SearchTerm{
		{Name: "SINCE", Value: "01-Mar-2025"},
		{Name: "BEFORE", Value: "15-Apr-2025"},
	})

	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), criteria.Since)
	assert.Equal(t, time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC), criteria.Before)
}

func TestBuildSearchCriteria_Flags(t *testing.T) {
	criteria := buildSearchCriteria([]SearchTerm{
		{Name: "SEEN"},
		{Name: "UNFLAGGED"},
	})

	assert.Equal(t, []string{imap.SeenFlag}, criteria.WithFlags)
	assert.Equal(t, []string{imap.FlaggedFlag}, criteria.WithoutFlags)
}

func TestBuildSearchCriteria_AllMatchesEverything(t *testing.T) {
	criteria := buildSearchCriteria([]SearchTerm{{Name: "ALL"}})

	assert.Empty(t, criteria.Header)
	assert.Empty(t, criteria.Body)
	assert.Empty(t, criteria.WithFlags)
	assert.Empty(t, criteria.WithoutFlags)
	assert.True(t, criteria.Since.IsZero())
	assert.True(t, criteria.Before.IsZero())
}
