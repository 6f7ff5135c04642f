package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLendAvailableItem(t *testing.T) {
	it := NewItem("Dune", "Herbert")

	res := it.Lend(1)

	assert.Equal(t, OutcomeLent, res.Outcome)
	assert.False(t, it.Available)
	assert.Empty(t, it.Waitlist)
	assert.Equal(t, "Book lent to Member ID: 1", res.Message())
}

func TestLendOnLoanItemQueuesAtTail(t *testing.T) {
	it := NewItem("Dune", "Herbert")
	it.Lend(1)

	first := it.Lend(2)
	second := it.Lend(3)

	assert.Equal(t, OutcomeWaitlisted, first.Outcome)
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	assert.False(t, it.Available)
	assert.Equal(t, []int64{2, 3}, it.Waitlist)
	assert.Equal(t, "Book not available. Member ID 2 added to waitlist.", first.Message())
}

func TestReturnDrainsWaitlistInFIFOOrder(t *testing.T) {
	it := NewItem("Dune", "Herbert")
	it.Lend(1)
	it.Lend(2)
	it.Lend(3)

	res := it.Return()
	require.Equal(t, OutcomeHandedOver, res.Outcome)
	assert.Equal(t, int64(2), res.NextMemberID)
	assert.False(t, it.Available)
	assert.Equal(t, []int64{3}, it.Waitlist)
	assert.Equal(t, "Book lent to Member ID: 2", res.Message())

	res = it.Return()
	assert.Equal(t, int64(3), res.NextMemberID)
	assert.Empty(t, it.Waitlist)
	assert.False(t, it.Available)

	res = it.Return()
	assert.Equal(t, OutcomeReturned, res.Outcome)
	assert.True(t, it.Available)
	assert.Equal(t, "Book returned and is now available.", res.Message())
}

func TestReturnAvailableItemIsIdempotent(t *testing.T) {
	it := NewItem("Dune", "Herbert")

	res := it.Return()

	assert.Equal(t, OutcomeReturned, res.Outcome)
	assert.True(t, it.Available)
	assert.Empty(t, it.Waitlist)
}

func TestCancelWaitlistRemovesFirstOccurrence(t *testing.T) {
	it := NewItem("Dune", "Herbert")
	it.Lend(1)
	it.Lend(2)
	it.Lend(3)
	it.Lend(2)

	assert.True(t, it.CancelWaitlist(2))
	assert.Equal(t, []int64{3, 2}, it.Waitlist)
	assert.False(t, it.CancelWaitlist(9))
}

func TestItemAndMemberStrings(t *testing.T) {
	it := NewItem("Dune", "Herbert")
	assert.Equal(t, "Title: Dune, Author: Herbert, Available: Yes", it.String())
	it.Lend(1)
	assert.Equal(t, "Title: Dune, Author: Herbert, Available: No", it.String())

	assert.Equal(t, "Member ID: 7, Name: Ada", Member{ID: 7, Name: "Ada"}.String())
}

func TestSortedByTitleIgnoresCaseAndKeepsInput(t *testing.T) {
	items := []Item{{Title: "dune"}, {Title: "Alpha"}, {Title: "beta"}}

	sorted := SortedByTitle(items)

	assert.Equal(t, []string{"Alpha", "beta", "dune"}, []string{sorted[0].Title, sorted[1].Title, sorted[2].Title})
	assert.Equal(t, "dune", items[0].Title)
}

func TestCloneDetachesWaitlist(t *testing.T) {
	it := NewItem("Dune", "Herbert")
	it.Lend(1)
	it.Lend(2)

	cp := it.clone()
	cp.Waitlist[0] = 99

	assert.Equal(t, []int64{2}, it.Waitlist)
}
