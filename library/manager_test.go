package library

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, backend string) (*LibraryManager, StoreOptions) {
	t.Helper()
	opts := StoreOptions{Backend: backend, Dir: t.TempDir()}
	mgr, err := NewLibraryManager(opts, nil)
	if err != nil {
		t.Fatalf("mgr: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr, opts
}

func statusMessages(notices []Notice) []string {
	var out []string
	for _, n := range notices {
		if n.Kind == NoticeStatus {
			out = append(out, n.Message)
		}
	}
	return out
}

func TestManagerStatusForEveryMutation(t *testing.T) {
	mgr, _ := newManager(t, "file")

	mgr.AddBook("Dune", "Herbert")
	mgr.RemoveBook("Missing")
	mgr.LendBook("Missing", 1)
	mgr.ReturnBook("Missing")
	mgr.AddMember(1, "Ada")
	mgr.RemoveMember(9)
	mgr.CancelWaitlist("Missing", 1)

	assert.Equal(t, []string{
		StatusBookAdded,
		StatusBookRemoved,
		StatusLendCompleted,
		StatusReturnCompleted,
		StatusMemberAdded,
		StatusMemberRemoved,
		StatusWaitlistCanceled,
	}, statusMessages(mgr.Notices().Drain()))
}

func TestManagerSubscribersSeeNoticesInOrder(t *testing.T) {
	mgr, _ := newManager(t, "file")
	var seen []string
	mgr.Notices().Subscribe(func(n Notice) { seen = append(seen, n.Message) })

	mgr.AddBook("Dune", "Herbert")
	mgr.LendBook("Dune", 4)

	assert.Equal(t, []string{StatusBookAdded, "Book lent to Member ID: 4", StatusLendCompleted}, seen)
	for _, n := range mgr.Notices().Drain() {
		assert.NotZero(t, n.ID)
		assert.False(t, n.At.IsZero())
	}
}

func TestManagerLendDoesNotRequireKnownMember(t *testing.T) {
	mgr, _ := newManager(t, "file")
	mgr.AddBook("Dune", "Herbert")

	res, ok := mgr.LendBook("Dune", 404)

	require.True(t, ok)
	assert.Equal(t, OutcomeLent, res.Outcome)
}

func TestManagerPersistsAcrossRestart(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			opts := StoreOptions{Backend: backend, Dir: t.TempDir()}
			mgr, err := NewLibraryManager(opts, nil)
			require.NoError(t, err)
			mgr.AddBook("Dune", "Herbert")
			mgr.AddMember(1, "Ada")
			mgr.AddMember(2, "Bo")
			mgr.LendBook("Dune", 1)
			mgr.LendBook("Dune", 2)
			require.NoError(t, mgr.Close())

			again, err := NewLibraryManager(opts, nil)
			require.NoError(t, err)
			defer again.Close()

			it, ok := again.SearchBook("dune")
			require.True(t, ok)
			assert.False(t, it.Available)
			assert.Equal(t, []int64{2}, it.Waitlist)
			assert.Len(t, again.ListMembers(), 2)
			assert.Equal(t, "1. Bo (ID: 2)", again.WaitlistNames(it.Waitlist))
		})
	}
}

func TestManagerStartsEmptyOnCorruptStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.json"), []byte("corrupt"), 0o644))

	mgr, err := NewLibraryManager(StoreOptions{Dir: dir}, nil)
	require.NoError(t, err)

	assert.Empty(t, mgr.ListBooks())
	mgr.AddBook("Emma", "Austen")
	assert.Len(t, mgr.ListBooks(), 1)
}

func TestManagerStartsEmptyOnCorruptDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "library.db"), bytes.Repeat([]byte("junk"), 1024), 0o644))
	opts := StoreOptions{Backend: "sqlite", Dir: dir}

	mgr, err := NewLibraryManager(opts, nil)
	require.NoError(t, err)
	assert.Empty(t, mgr.ListBooks())
	assert.Empty(t, mgr.ListMembers())
	mgr.AddBook("Emma", "Austen")
	require.NoError(t, mgr.Close())

	again, err := NewLibraryManager(opts, nil)
	require.NoError(t, err)
	defer again.Close()
	_, ok := again.SearchBook("emma")
	assert.True(t, ok)
}

func TestManagerKeepsMemoryStateWhenSaveFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	mgr, err := NewLibraryManager(StoreOptions{Dir: filepath.Join(blocker, "data")}, nil)
	require.NoError(t, err)

	mgr.AddBook("Dune", "Herbert")
	_, ok := mgr.LendBook("Dune", 1)

	require.True(t, ok)
	it, _ := mgr.SearchBook("Dune")
	assert.False(t, it.Available)
}

func TestWaitlistNamesFallsBackToID(t *testing.T) {
	mgr, _ := newManager(t, "file")
	mgr.AddMember(2, "Alice")

	assert.Equal(t, "None", mgr.WaitlistNames(nil))
	assert.Equal(t, "1. Alice (ID: 2), 2. ID: 9", mgr.WaitlistNames([]int64{2, 9}))
}
