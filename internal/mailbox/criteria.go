package mailbox

import (
	"time"

	"github.com/emersion/go-imap"
)

// Criteria is a structured search filter. String predicates are substring
// matches, the time bounds filter on the server's internal date, and the
// *bool predicates are tri-state: nil means "not filtered".
type Criteria struct {
	From    string
	To      string
	Subject string
	Body    string

	Since  time.Time
	Before time.Time

	Seen     *bool
	Flagged  *bool
	Answered *bool
	Draft    *bool
}

// SearchTerm is one protocol-level search term. Flag terms carry no value.
type SearchTerm struct {
	Name  string
	Value string
}

// searchDateLayout is the RFC 3501 date-text form.
const searchDateLayout = "02-Jan-2006"

// TranslateCriteria maps a filter to an ordered term list. Each present
// predicate contributes exactly one term, in a fixed field order so the
// output is deterministic; servers evaluate the list as a conjunction.
// With no predicates set the result is the single ALL term.
func TranslateCriteria(c Criteria) []SearchTerm {
	var terms []SearchTerm

	if c.From != "" {
		terms = append(terms, SearchTerm{Name: "FROM", Value: c.From})
	}
	if c.To != "" {
		terms = append(terms, SearchTerm{Name: "TO", Value: c.To})
	}
	if c.Subject != "" {
		terms = append(terms, SearchTerm{Name: "SUBJECT", Value: c.Subject})
	}
	if c.Body != "" {
		terms = append(terms, SearchTerm{Name: "BODY", Value: c.Body})
	}
	if !c.Since.IsZero() {
		terms = append(terms, SearchTerm{Name: "SINCE", Value: c.Since.Format(searchDateLayout)})
	}
	if !c.Before.IsZero() {
		terms = append(terms, SearchTerm{Name: "BEFORE", Value: c.Before.Format(searchDateLayout)})
	}

	terms = appendFlagTerm(terms, c.Seen, "SEEN", "UNSEEN")
	terms = appendFlagTerm(terms, c.Flagged, "FLAGGED", "UNFLAGGED")
	terms = appendFlagTerm(terms, c.Answered, "ANSWERED", "UNANSWERED")
	terms = appendFlagTerm(terms, c.Draft, "DRAFT", "UNDRAFT")

	if len(terms) == 0 {
		return []SearchTerm{{Name: "ALL"}}
	}
	return terms
}

func appendFlagTerm(terms []SearchTerm, v *bool, positive, negative string) []SearchTerm {
	if v == nil {
		return terms
	}
	if *v {
		return append(terms, SearchTerm{Name: positive})
	}
	return append(terms, SearchTerm{Name: negative})
}

// buildSearchCriteria lowers a term list onto the protocol library's
// criteria object. Unknown terms are ignored; ALL contributes nothing since
// an empty criteria already matches everything.
func buildSearchCriteria(terms []SearchTerm) *imap.SearchCriteria {
	criteria := imap.NewSearchCriteria()

	for _, term := range terms {
		switch term.Name {
		case "ALL":
		case "FROM":
			criteria.Header.Add("From", term.Value)
		case "TO":
			criteria.Header.Add("To", term.Value)
		case "SUBJECT":
			criteria.Header.Add("Subject", term.Value)
		case "BODY":
			criteria.Body = append(criteria.Body, term.Value)
		case "SINCE":
			if d, err := time.Parse(searchDateLayout, term.Value); err == nil {
				criteria.Since = d
			}
		case "BEFORE":
			if d, err := time.Parse(searchDateLayout, term.Value); err == nil {
				criteria.Before = d
			}
		case "SEEN":
			criteria.WithFlags = append(criteria.WithFlags, imap.SeenFlag)
		case "UNSEEN":
			criteria.WithoutFlags = append(criteria.WithoutFlags, imap.SeenFlag)
		case "FLAGGED":
			criteria.WithFlags = append(criteria.WithFlags, imap.FlaggedFlag)
		case "UNFLAGGED":
			criteria.WithoutFlags = append(criteria.WithoutFlags, imap.FlaggedFlag)
		case "ANSWERED":
			criteria.WithFlags = append(criteria.WithFlags, imap.AnsweredFlag)
		case "UNANSWERED":
			criteria.WithoutFlags = append(criteria.WithoutFlags, imap.AnsweredFlag)
		case "DRAFT":
			criteria.WithFlags = append(criteria.WithFlags, imap.DraftFlag)
		case "UNDRAFT":
			criteria.WithoutFlags = append(criteria.WithoutFlags, imap.DraftFlag)
		}
	}

	return criteria
}
