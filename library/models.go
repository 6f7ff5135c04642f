package library

import (
	"fmt"
	"slices"
	"strings"
)

// Item is a lendable catalog entry. Title is the identity key and is matched
// case-insensitively. The current holder is not recorded, only whether the
// item is out and who is queued for it.
type Item struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Available bool    `json:"available"`
	Waitlist  []int64 `json:"waitlist"`
}

// Member represents a registered library member. IDs are caller-assigned and
// not guaranteed unique.
type Member struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Outcome describes what a lend or return did to an item.
type Outcome int

const (
	// OutcomeLent means the item was available and is now on loan.
	OutcomeLent Outcome = iota + 1
	// OutcomeWaitlisted means the item was on loan and the member was queued.
	OutcomeWaitlisted
	// OutcomeHandedOver means a return passed the item straight to the next
	// queued member.
	OutcomeHandedOver
	// OutcomeReturned means the item is back on the shelf.
	OutcomeReturned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLent:
		return "lent"
	case OutcomeWaitlisted:
		return "waitlisted"
	case OutcomeHandedOver:
		return "handed_over"
	case OutcomeReturned:
		return "returned"
	default:
		return "unknown"
	}
}

// LendResult reports the effect of Item.Lend.
type LendResult struct {
	Outcome  Outcome
	MemberID int64
	// Position is the 1-based place in the waitlist when Outcome is
	// OutcomeWaitlisted, zero otherwise.
	Position int
}

// Message renders the human-readable notification for the lend.
func (r LendResult) Message() string {
	if r.Outcome == OutcomeWaitlisted {
		return fmt.Sprintf("Book not available. Member ID %d added to waitlist.", r.MemberID)
	}
	return fmt.Sprintf("Book lent to Member ID: %d", r.MemberID)
}

// ReturnResult reports the effect of Item.Return.
type ReturnResult struct {
	Outcome      Outcome
	NextMemberID int64
}

// Message renders the human-readable notification for the return.
func (r ReturnResult) Message() string {
	if r.Outcome == OutcomeHandedOver {
		return fmt.Sprintf("Book lent to Member ID: %d", r.NextMemberID)
	}
	return "Book returned and is now available."
}

// NewItem creates an available item with an empty waitlist.
func NewItem(title, author string) *Item {
	return &Item{Title: title, Author: author, Available: true, Waitlist: []int64{}}
}

// Lend hands the item to memberID when it is available, otherwise queues
// memberID at the tail of the waitlist. memberID is trusted as-is.
func (it *Item) Lend(memberID int64) LendResult {
	if it.Available {
		it.Available = false
		return LendResult{Outcome: OutcomeLent, MemberID: memberID}
	}
	it.Waitlist = append(it.Waitlist, memberID)
	return LendResult{Outcome: OutcomeWaitlisted, MemberID: memberID, Position: len(it.Waitlist)}
}

// Return ends the current loan. If anyone is waiting, the head of the queue
// becomes the new holder and the item never shows as available.
func (it *Item) Return() ReturnResult {
	if len(it.Waitlist) > 0 {
		next := it.Waitlist[0]
		it.Waitlist = slices.Delete(it.Waitlist, 0, 1)
		it.Available = false
		return ReturnResult{Outcome: OutcomeHandedOver, NextMemberID: next}
	}
	it.Available = true
	return ReturnResult{Outcome: OutcomeReturned}
}

// CancelWaitlist drops the first queued entry for memberID. It reports
// whether an entry was removed.
func (it *Item) CancelWaitlist(memberID int64) bool {
	idx := slices.Index(it.Waitlist, memberID)
	if idx < 0 {
		return false
	}
	it.Waitlist = slices.Delete(it.Waitlist, idx, idx+1)
	return true
}

// MatchesTitle compares titles case-insensitively.
func (it *Item) MatchesTitle(title string) bool {
	return strings.EqualFold(it.Title, title)
}

func (it Item) clone() Item {
	it.Waitlist = slices.Clone(it.Waitlist)
	if it.Waitlist == nil {
		it.Waitlist = []int64{}
	}
	return it
}

func (it Item) String() string {
	avail := "No"
	if it.Available {
		avail = "Yes"
	}
	return fmt.Sprintf("Title: %s, Author: %s, Available: %s", it.Title, it.Author, avail)
}

func (m Member) String() string {
	return fmt.Sprintf("Member ID: %d, Name: %s", m.ID, m.Name)
}

// SortedByTitle returns a copy of items ordered by title, ignoring case.
// Catalog order is insertion order; this is only for display.
func SortedByTitle(items []Item) []Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b Item) int {
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
	return out
}
