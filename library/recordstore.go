package library

import (
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/crypto/blake2b"

	"lending-library/internal/logger"
)

// Collection names used by the catalog and roster.
const (
	CollectionItems   = "items"
	CollectionMembers = "members"
)

// ErrNoCollection is returned by a Backend when nothing has been stored
// under the requested collection yet.
var ErrNoCollection = errors.New("collection not found")

// Backend moves encoded collections to and from a durable medium. Each
// collection is stored independently of the others.
type Backend interface {
	Read(collection string) ([]byte, error)
	Write(collection string, payload []byte) error
	Close() error
}

// StoreOptions selects and locates the backing medium.
type StoreOptions struct {
	// Backend is "file" (default) or "sqlite".
	Backend string
	// Dir holds one JSON file per collection for the file backend.
	Dir string
	// SQLitePath is the database file for the sqlite backend. Defaults to
	// Dir/library.db.
	SQLitePath string
}

// OpenBackend constructs the backend described by opts. A nil log discards
// messages.
func OpenBackend(opts StoreOptions, log *logger.Logger) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "file":
		if strings.TrimSpace(opts.Dir) == "" {
			return nil, errors.New("file backend: data directory is required")
		}
		return NewFileBackend(opts.Dir), nil
	case "sqlite":
		path := opts.SQLitePath
		if strings.TrimSpace(path) == "" {
			if strings.TrimSpace(opts.Dir) == "" {
				return nil, errors.New("sqlite backend: database path is required")
			}
			path = filepath.Join(opts.Dir, "library.db")
		}
		return OpenDatabase(path, log)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", opts.Backend)
	}
}

// ---------------------------------------------------------------------------
// Codec
// ---------------------------------------------------------------------------

const codecSchemaVersion = 1

var codecJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type envelope struct {
	SchemaVersion int                 `json:"schema_version"`
	Collection    string              `json:"collection"`
	Checksum      string              `json:"checksum"`
	Records       jsoniter.RawMessage `json:"records"`
}

func checksum(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func encodeCollection[T any](collection string, records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	raw, err := codecJSON.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	// No indentation: the checksum covers the records bytes exactly as written.
	return codecJSON.Marshal(envelope{
		SchemaVersion: codecSchemaVersion,
		Collection:    collection,
		Checksum:      checksum(raw),
		Records:       raw,
	})
}

func decodeCollection[T any](collection string, payload []byte) ([]T, error) {
	var env envelope
	if err := codecJSON.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}
	if env.SchemaVersion != codecSchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d", env.SchemaVersion)
	}
	if env.Collection != collection {
		return nil, fmt.Errorf("envelope holds collection %q, want %q", env.Collection, collection)
	}
	if env.Checksum != checksum(env.Records) {
		return nil, errors.New("checksum mismatch")
	}
	var records []T
	if err := codecJSON.Unmarshal(env.Records, &records); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// ---------------------------------------------------------------------------
// RecordStore
// ---------------------------------------------------------------------------

// RecordStore loads and saves whole collections. Storage failures stop here:
// loads fall back to an empty collection and saves are logged.
type RecordStore struct {
	backend Backend
	log     *logger.Logger
}

// NewRecordStore wraps backend. A nil log discards messages.
func NewRecordStore(backend Backend, log *logger.Logger) *RecordStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &RecordStore{backend: backend, log: log.With("component", "recordstore")}
}

// OpenRecordStore opens the backend described by opts.
func OpenRecordStore(opts StoreOptions, log *logger.Logger) (*RecordStore, error) {
	backend, err := OpenBackend(opts, log)
	if err != nil {
		return nil, err
	}
	return NewRecordStore(backend, log), nil
}

// Close releases the backend.
func (s *RecordStore) Close() error { return s.backend.Close() }

// LoadCollection returns the stored records for collection, or an empty
// slice when the collection is missing, unreadable or cannot be decoded.
func LoadCollection[T any](s *RecordStore, collection string) []T {
	payload, err := s.backend.Read(collection)
	if errors.Is(err, ErrNoCollection) {
		s.log.Debug("collection not stored yet, starting empty", "collection", collection)
		return []T{}
	}
	if err != nil {
		s.log.Warn("collection unreadable, starting empty", "collection", collection, "error", err)
		return []T{}
	}
	records, err := decodeCollection[T](collection, payload)
	if err != nil {
		s.log.Warn("collection corrupt, starting empty", "collection", collection, "error", err)
		return []T{}
	}
	s.log.Debug("loaded collection", "collection", collection, "records", len(records))
	return records
}

// SaveCollection overwrites collection with records. It reports whether the
// write reached the medium; failures are logged and otherwise ignored.
func SaveCollection[T any](s *RecordStore, collection string, records []T) bool {
	payload, err := encodeCollection(collection, records)
	if err != nil {
		s.log.Error("encode collection failed", "collection", collection, "error", err)
		return false
	}
	if err := s.backend.Write(collection, payload); err != nil {
		s.log.Error("save collection failed, keeping in-memory state", "collection", collection, "error", err)
		return false
	}
	return true
}
