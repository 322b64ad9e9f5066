package sdk

import (
	"fmt"
	"sort"

	dbm "github.com/tendermint/tm-db"
)

// State is the tiny kv surface the contract code talks to.
type State interface {
	Set(key, value string)
	Get(key string) *string
	Delete(key string)
}

// Store is the persistent side of the state, backed by any tm-db backend.
type Store struct {
	db dbm.DB
}

// NewStore wraps an already opened tm-db handle.
func NewStore(db dbm.DB) *Store {
	return &Store{db: db}
}

// NewMemStore is the in-memory flavour used by tests and dry runs.
// Example payload: sdk.NewMemStore()
func NewMemStore() *Store {
	return NewStore(dbm.NewMemDB())
}

// OpenStore opens (or creates) a database named name inside dir.
// Example payload: sdk.OpenStore("acdm", "goleveldb", "./data")
func OpenStore(name, backend, dir string) (*Store, error) {
	db, err := dbm.NewDB(name, dbm.BackendType(backend), dir)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", name, err)
	}
	return NewStore(db), nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin starts a write overlay. Nothing reaches the database until Commit.
func (s *Store) Begin() *Tx {
	return &Tx{db: s.db, writes: map[string]*string{}}
}

// Tx buffers writes of one call. Reads see the buffered writes first and then fall
// through to the database. Deletes are buffered as nil entries.
type Tx struct {
	db     dbm.DB
	writes map[string]*string
	err    error
}

var _ State = (*Tx)(nil)

// Get returns nil for missing keys. A backend read error is kept and reported by Err
// and Commit, the caller just sees a miss.
func (t *Tx) Get(key string) *string {
	if v, ok := t.writes[key]; ok {
		if v == nil {
			return nil
		}
		out := *v
		return &out
	}
	bz, err := t.db.Get([]byte(key))
	if err != nil {
		if t.err == nil {
			t.err = fmt.Errorf("read %x: %w", key, err)
		}
		return nil
	}
	if bz == nil {
		return nil
	}
	out := string(bz)
	return &out
}

func (t *Tx) Set(key, value string) {
	v := value
	t.writes[key] = &v
}

func (t *Tx) Delete(key string) {
	t.writes[key] = nil
}

// Err is the first backend error seen by this overlay.
func (t *Tx) Err() error {
	return t.err
}

// Len counts buffered writes and deletes.
func (t *Tx) Len() int {
	return len(t.writes)
}

// Commit flushes the overlay as one batch, keys in sorted order so the write set is
// deterministic.
func (t *Tx) Commit() error {
	if t.err != nil {
		return t.err
	}
	keys := make([]string, 0, len(t.writes))
	for k := range t.writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	batch := t.db.NewBatch()
	defer batch.Close()
	for _, k := range keys {
		v := t.writes[k]
		var err error
		if v == nil {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Set([]byte(k), []byte(*v))
		}
		if err != nil {
			return fmt.Errorf("batch %x: %w", k, err)
		}
	}
	if err := batch.WriteSync(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	t.writes = map[string]*string{}
	return nil
}

// Discard drops every buffered write.
func (t *Tx) Discard() {
	t.writes = map[string]*string{}
	t.err = nil
}
