package library

import (
	"slices"

	"lending-library/internal/logger"
)

// Roster owns the members in insertion order, written through on change.
type Roster struct {
	members []*Member
	store   *RecordStore
	log     *logger.Logger
}

// NewRoster loads the members collection from store once.
func NewRoster(store *RecordStore, log *logger.Logger) *Roster {
	if log == nil {
		log = logger.NewNop()
	}
	r := &Roster{store: store, log: log.With("component", "roster")}
	for _, m := range LoadCollection[*Member](store, CollectionMembers) {
		if m != nil {
			r.members = append(r.members, m)
		}
	}
	return r
}

func (r *Roster) save() {
	if !SaveCollection(r.store, CollectionMembers, r.members) {
		r.log.Warn("roster not persisted", "members", len(r.members))
	}
}

// AddMember appends a member. Duplicate ids are accepted.
func (r *Roster) AddMember(id int64, name string) Member {
	m := &Member{ID: id, Name: name}
	r.members = append(r.members, m)
	r.save()
	return *m
}

// RemoveMember deletes every member with id and returns how many were removed.
func (r *Roster) RemoveMember(id int64) int {
	before := len(r.members)
	r.members = slices.DeleteFunc(r.members, func(m *Member) bool { return m.ID == id })
	r.save()
	return before - len(r.members)
}

// SearchMemberByID returns the first member with id.
func (r *Roster) SearchMemberByID(id int64) (Member, bool) {
	for _, m := range r.members {
		if m.ID == id {
			return *m, true
		}
	}
	return Member{}, false
}

func (r *Roster) ListMembers() []Member {
	out := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, *m)
	}
	return out
}
