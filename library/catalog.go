package library

import (
	"slices"
	"time"

	"lending-library/internal/logger"
)

// Catalog owns the items in insertion order. Every mutation is written
// through to the record store before the call returns.
type Catalog struct {
	items  []*Item
	store  *RecordStore
	notify Notifier
	log    *logger.Logger
}

// NewCatalog loads the items collection from store once.
func NewCatalog(store *RecordStore, notify Notifier, log *logger.Logger) *Catalog {
	if notify == nil {
		notify = discardNotifier{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	c := &Catalog{store: store, notify: notify, log: log.With("component", "catalog")}
	for _, it := range LoadCollection[*Item](store, CollectionItems) {
		if it == nil {
			continue
		}
		if it.Waitlist == nil {
			it.Waitlist = []int64{}
		}
		c.items = append(c.items, it)
	}
	return c
}

func (c *Catalog) save() {
	if !SaveCollection(c.store, CollectionItems, c.items) {
		c.log.Warn("catalog not persisted", "items", len(c.items))
	}
}

func (c *Catalog) find(title string) *Item {
	for _, it := range c.items {
		if it.MatchesTitle(title) {
			return it
		}
	}
	return nil
}

// AddBook appends a new available item.
func (c *Catalog) AddBook(title, author string) Item {
	it := NewItem(title, author)
	c.items = append(c.items, it)
	c.save()
	c.log.Debug("book added", "title", title)
	return it.clone()
}

// RemoveBook deletes every item whose title matches, ignoring case, and
// returns how many were removed.
func (c *Catalog) RemoveBook(title string) int {
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(it *Item) bool { return it.MatchesTitle(title) })
	c.save()
	return before - len(c.items)
}

// SearchBook returns the first item whose title matches, ignoring case.
func (c *Catalog) SearchBook(title string) (Item, bool) {
	it := c.find(title)
	if it == nil {
		return Item{}, false
	}
	return it.clone(), true
}

// LendBook lends the first matching item to memberID or queues memberID.
// An unknown title is a no-op reported through the bool.
func (c *Catalog) LendBook(title string, memberID int64) (LendResult, bool) {
	it := c.find(title)
	if it == nil {
		return LendResult{}, false
	}
	res := it.Lend(memberID)
	c.save()

	kind := NoticeLent
	if res.Outcome == OutcomeWaitlisted {
		kind = NoticeWaitlisted
	}
	c.notify.Notify(newNotice(kind, res.Message(), time.Now()))
	return res, true
}

// ReturnBook returns the first matching item, handing it to the head of its
// waitlist when one exists.
func (c *Catalog) ReturnBook(title string) (ReturnResult, bool) {
	it := c.find(title)
	if it == nil {
		return ReturnResult{}, false
	}
	res := it.Return()
	c.save()

	kind := NoticeReturned
	if res.Outcome == OutcomeHandedOver {
		kind = NoticeHandedOver
	}
	c.notify.Notify(newNotice(kind, res.Message(), time.Now()))
	return res, true
}

// Waitlist returns the queued member ids for the first matching item.
func (c *Catalog) Waitlist(title string) ([]int64, bool) {
	it := c.find(title)
	if it == nil {
		return nil, false
	}
	return slices.Clone(it.Waitlist), true
}

// CancelWaitlist removes memberID's first queued entry on the first matching
// item. It persists only when something changed.
func (c *Catalog) CancelWaitlist(title string, memberID int64) bool {
	it := c.find(title)
	if it == nil || !it.CancelWaitlist(memberID) {
		return false
	}
	c.save()
	return true
}

// ListBooks returns copies of the items in insertion order.
func (c *Catalog) ListBooks() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it.clone())
	}
	return out
}
