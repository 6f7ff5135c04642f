package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) (*RecordStore, *FileBackend) {
	t.Helper()
	backend := NewFileBackend(filepath.Join(t.TempDir(), "data"))
	store := NewRecordStore(backend, nil)
	t.Cleanup(func() { store.Close() })
	return store, backend
}

func sampleItems() []*Item {
	lent := NewItem("Dune", "Herbert")
	lent.Lend(1)
	lent.Lend(2)
	lent.Lend(3)
	return []*Item{lent, NewItem("Go", "Pike"), NewItem("go", "Kernighan")}
}

func TestFileStoreRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		store, _ := tempStore(t)
		items := sampleItems()[:n]

		require.True(t, SaveCollection(store, CollectionItems, items))
		got := LoadCollection[*Item](store, CollectionItems)

		require.Len(t, got, n)
		for i := range items {
			assert.Equal(t, *items[i], *got[i])
		}
	}
}

func TestMembersRoundTrip(t *testing.T) {
	store, _ := tempStore(t)
	members := []Member{{ID: 1, Name: "Ada"}, {ID: 1, Name: "Dup"}, {ID: 7, Name: "Lin"}}

	require.True(t, SaveCollection(store, CollectionMembers, members))
	assert.Equal(t, members, LoadCollection[Member](store, CollectionMembers))
}

func TestLoadMissingCollectionIsEmpty(t *testing.T) {
	store, _ := tempStore(t)

	got := LoadCollection[*Item](store, CollectionItems)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadCorruptCollectionIsEmpty(t *testing.T) {
	cases := map[string]func(good []byte) []byte{
		"garbage":  func([]byte) []byte { return []byte("\x00\x01not json") },
		"empty":    func([]byte) []byte { return nil },
		"truncate": func(good []byte) []byte { return good[:len(good)/2] },
		"tampered": func(good []byte) []byte {
			return []byte(strings.Replace(string(good), "Herbert", "Asimov", 1))
		},
		"version": func(good []byte) []byte {
			return []byte(strings.Replace(string(good), `"schema_version":1`, `"schema_version":9`, 1))
		},
		"wrong collection": func(good []byte) []byte {
			return []byte(strings.Replace(string(good), `"collection":"items"`, `"collection":"members"`, 1))
		},
	}
	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			store, backend := tempStore(t)
			require.True(t, SaveCollection(store, CollectionItems, sampleItems()))
			good, err := os.ReadFile(backend.Path(CollectionItems))
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(backend.Path(CollectionItems), corrupt(good), 0o644))

			got := LoadCollection[*Item](store, CollectionItems)
			assert.Empty(t, got)
		})
	}
}

func TestSaveFailureIsReportedNotRaised(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	store := NewRecordStore(NewFileBackend(filepath.Join(blocker, "data")), nil)

	assert.False(t, SaveCollection(store, CollectionItems, sampleItems()))
	assert.Empty(t, LoadCollection[*Item](store, CollectionItems))
}

func TestCollectionsAreIndependent(t *testing.T) {
	store, backend := tempStore(t)
	require.True(t, SaveCollection(store, CollectionItems, sampleItems()))
	require.True(t, SaveCollection(store, CollectionMembers, []Member{{ID: 1, Name: "Ada"}}))

	require.NoError(t, os.WriteFile(backend.Path(CollectionItems), []byte("{"), 0o644))

	assert.Empty(t, LoadCollection[*Item](store, CollectionItems))
	assert.Equal(t, []Member{{ID: 1, Name: "Ada"}}, LoadCollection[Member](store, CollectionMembers))
}

func TestFileBackendLeavesNoTempFile(t *testing.T) {
	store, backend := tempStore(t)
	require.True(t, SaveCollection(store, CollectionItems, sampleItems()))

	_, err := os.Stat(backend.Path(CollectionItems) + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()

	b, err := OpenBackend(StoreOptions{Dir: dir}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	b, err = OpenBackend(StoreOptions{Backend: "SQLite", Dir: dir}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Database{}, b)
	require.NoError(t, b.Close())
	assert.FileExists(t, filepath.Join(dir, "library.db"))

	_, err = OpenBackend(StoreOptions{Backend: "tape", Dir: dir}, nil)
	assert.Error(t, err)

	_, err = OpenBackend(StoreOptions{Backend: "file"}, nil)
	assert.Error(t, err)
}
