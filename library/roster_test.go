package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterSearchOnEmptyRoster(t *testing.T) {
	store, _ := tempStore(t)
	r := NewRoster(store, nil)

	_, ok := r.SearchMemberByID(7)

	assert.False(t, ok)
	assert.Empty(t, r.ListMembers())
}

func TestRosterDuplicateIDsFirstMatchAndRemoveAll(t *testing.T) {
	store, _ := tempStore(t)
	r := NewRoster(store, nil)
	r.AddMember(1, "Ada")
	r.AddMember(2, "Bo")
	r.AddMember(1, "Cy")

	m, ok := r.SearchMemberByID(1)
	require.True(t, ok)
	assert.Equal(t, "Ada", m.Name)

	assert.Equal(t, 2, r.RemoveMember(1))
	assert.Equal(t, []Member{{ID: 2, Name: "Bo"}}, r.ListMembers())
	assert.Equal(t, 0, r.RemoveMember(1))
}

func TestRosterWritesThroughAndReloads(t *testing.T) {
	store, _ := tempStore(t)
	r := NewRoster(store, nil)
	r.AddMember(5, "Eve")
	r.AddMember(3, "Dan")

	reloaded := NewRoster(store, nil)

	assert.Equal(t, []Member{{ID: 5, Name: "Eve"}, {ID: 3, Name: "Dan"}}, reloaded.ListMembers())
}
