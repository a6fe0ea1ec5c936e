package ordkv

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.etcd.io/bbolt"
)

const (
	// DefaultStoreName is used when Options.StoreName is empty.
	DefaultStoreName = "storage"

	// MemoryPath opens a transient in-memory engine instead of a Bolt file.
	MemoryPath = ":memory:"

	recordsBucket = "records"
	keysBucket    = "keys"
)

// Store is an insertion-ordered key-value store bound to one named
// record store inside one engine location. A location may host several
// stores as long as each uses a distinct name; two Store instances
// pointed at the same (location, name) identity are coordinated only by
// the engine's per-transaction atomicity.
type Store struct {
	eng     engine
	ownsEng bool
	name    string
	logf    func(format string, args ...any)
	verbose bool

	deleted atomic.Bool

	defaultsMu sync.Mutex
	defaults   map[string]any

	ReadCount  atomic.Uint64
	WriteCount atomic.Uint64
}

type Options struct {
	// StoreName identifies the record store within the location.
	// Empty means DefaultStoreName.
	StoreName string

	Logf      func(format string, args ...any)
	Verbose   bool
	IsTesting bool
	MmapSize  int
}

// Open opens or creates the store at the given location. A directory
// path resolves to a file named after the store inside it; MemoryPath
// gives a transient in-memory engine. Reopening an existing store with
// the same name is idempotent.
func Open(path string, opt Options) (*Store, error) {
	name := opt.StoreName
	if name == "" {
		name = DefaultStoreName
	}

	var eng engine
	if path == MemoryPath {
		eng = newMemEngine()
	} else {
		if st, err := os.Stat(path); err == nil && st.IsDir() {
			path = filepath.Join(path, name+".db")
		}
		bopt := &bbolt.Options{}
		*bopt = *bbolt.DefaultOptions
		bopt.Timeout = 10 * time.Second
		if opt.IsTesting {
			bopt.NoSync = true
			bopt.NoFreelistSync = true
			bopt.InitialMmapSize = 1024 * 1024 * 5
		} else {
			bopt.InitialMmapSize = 1024 * 1024 * 1024
			bopt.FreelistType = bbolt.FreelistMapType
		}
		if opt.MmapSize != 0 {
			bopt.InitialMmapSize = opt.MmapSize
		}

		bdb, err := bbolt.Open(path, 0666, bopt)
		if err != nil {
			return nil, fmt.Errorf("ordkv: %w", err)
		}
		eng = newBoltEngine(bdb)
	}

	s, err := newStore(eng, name, opt)
	if err != nil {
		eng.Close()
		return nil, err
	}
	s.ownsEng = true
	return s, nil
}

// newStore binds a store name to an already-open engine and ensures the
// record and key-index buckets exist. Tests use it directly to point
// several stores at one engine location.
func newStore(eng engine, name string, opt Options) (*Store, error) {
	s := &Store{
		eng:      eng,
		name:     name,
		logf:     opt.Logf,
		verbose:  opt.Verbose,
		defaults: make(map[string]any),
	}
	err := s.write(func(tx engineTx) error {
		if _, err := tx.CreateBucket(name, recordsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(name, keysBucket)
		return err
	})
	if err != nil {
		return nil, s.wrap("open", "", err)
	}
	return s, nil
}

// Close releases the engine handle. It does not affect persisted data
// or the lifecycle state.
func (s *Store) Close() error {
	if !s.ownsEng {
		return nil
	}
	return s.eng.Close()
}

// Name returns the record store name within the location.
func (s *Store) Name() string {
	return s.name
}

// guard is the lifecycle check every data operation runs first: once
// the store is deleted, fail fast without contacting the engine.
func (s *Store) guard(op string) error {
	if s.deleted.Load() {
		return &StoreError{Store: s.name, Op: op, Err: ErrStoreDeleted}
	}
	return nil
}

func (s *Store) wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Store: s.name, Op: op, Key: key, Err: err}
}

// read runs f inside a single read-only engine transaction.
func (s *Store) read(f func(tx engineTx) error) error {
	tx, err := s.eng.BeginTx(false)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	s.ReadCount.Add(1)
	return f(tx)
}

// write runs f inside a single writable engine transaction, committing
// on success. The engine serializes writable transactions, so whatever
// f scans and then writes is atomic with respect to other writers.
func (s *Store) write(f func(tx engineTx) error) error {
	tx, err := s.eng.BeginTx(true)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := f(tx); err != nil {
		return err
	}
	s.WriteCount.Add(1)
	return tx.Commit()
}

func (s *Store) logv(format string, args ...any) {
	if s.verbose && s.logf != nil {
		s.logf(format, args...)
	}
}
