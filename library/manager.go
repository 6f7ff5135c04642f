package library

import (
	"fmt"
	"strings"
	"time"

	"lending-library/internal/logger"
)

// LibraryManager is a thin façade over the Catalog and Roster, keeping front
// end code simple. Every mutating call publishes a status notice whatever the
// outcome; return values carry the actual result.
type LibraryManager struct {
	store   *RecordStore
	catalog *Catalog
	roster  *Roster
	notices *NoticeLog
}

// NewLibraryManager opens the record store described by opts and loads both
// collections.
func NewLibraryManager(opts StoreOptions, log *logger.Logger) (*LibraryManager, error) {
	store, err := OpenRecordStore(opts, log)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	return NewLibraryManagerWithStore(store, log), nil
}

// NewLibraryManagerWithStore builds the façade over an existing store.
func NewLibraryManagerWithStore(store *RecordStore, log *logger.Logger) *LibraryManager {
	notices := NewNoticeLog()
	return &LibraryManager{
		store:   store,
		catalog: NewCatalog(store, notices, log),
		roster:  NewRoster(store, log),
		notices: notices,
	}
}

// Close closes the underlying store.
func (lm *LibraryManager) Close() error { return lm.store.Close() }

// Notices exposes the notification side channel.
func (lm *LibraryManager) Notices() *NoticeLog { return lm.notices }

func (lm *LibraryManager) status(msg string) {
	lm.notices.Notify(newNotice(NoticeStatus, msg, time.Now()))
}

// ------------------ Book helpers ------------------

func (lm *LibraryManager) AddBook(title, author string) Item {
	it := lm.catalog.AddBook(title, author)
	lm.status(StatusBookAdded)
	return it
}

func (lm *LibraryManager) RemoveBook(title string) int {
	n := lm.catalog.RemoveBook(title)
	lm.status(StatusBookRemoved)
	return n
}

func (lm *LibraryManager) SearchBook(title string) (Item, bool) { return lm.catalog.SearchBook(title) }
func (lm *LibraryManager) ListBooks() []Item                    { return lm.catalog.ListBooks() }

// ------------------ Member helpers ------------------

func (lm *LibraryManager) AddMember(id int64, name string) Member {
	m := lm.roster.AddMember(id, name)
	lm.status(StatusMemberAdded)
	return m
}

func (lm *LibraryManager) RemoveMember(id int64) int {
	n := lm.roster.RemoveMember(id)
	lm.status(StatusMemberRemoved)
	return n
}

func (lm *LibraryManager) SearchMemberByID(id int64) (Member, bool) {
	return lm.roster.SearchMemberByID(id)
}
func (lm *LibraryManager) ListMembers() []Member { return lm.roster.ListMembers() }

// ------------------ Circulation ------------------

// LendBook lends title to memberID, or waitlists memberID when it is out.
// memberID is not checked against the roster.
func (lm *LibraryManager) LendBook(title string, memberID int64) (LendResult, bool) {
	res, ok := lm.catalog.LendBook(title, memberID)
	lm.status(StatusLendCompleted)
	return res, ok
}

// ReturnBook returns title; the next waitlisted member, if any, becomes the
// holder in the same step.
func (lm *LibraryManager) ReturnBook(title string) (ReturnResult, bool) {
	res, ok := lm.catalog.ReturnBook(title)
	lm.status(StatusReturnCompleted)
	return res, ok
}

// ------------------ Waitlist helpers ------------------

func (lm *LibraryManager) Waitlist(title string) ([]int64, bool) { return lm.catalog.Waitlist(title) }

func (lm *LibraryManager) CancelWaitlist(title string, memberID int64) bool {
	ok := lm.catalog.CancelWaitlist(title, memberID)
	lm.status(StatusWaitlistCanceled)
	return ok
}

// ------------------ Utilities ------------------

// WaitlistNames renders a waitlist with member names where the roster knows
// them, e.g. "1. Alice (ID: 2), 2. ID: 9".
func (lm *LibraryManager) WaitlistNames(ids []int64) string {
	if len(ids) == 0 {
		return "None"
	}
	parts := make([]string, 0, len(ids))
	for i, id := range ids {
		if m, ok := lm.roster.SearchMemberByID(id); ok {
			parts = append(parts, fmt.Sprintf("%d. %s (ID: %d)", i+1, m.Name, m.ID))
		} else {
			parts = append(parts, fmt.Sprintf("%d. ID: %d", i+1, id))
		}
	}
	return strings.Join(parts, ", ")
}
