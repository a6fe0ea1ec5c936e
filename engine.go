package ordkv

import "errors"

// ErrBucketNotFound is returned by engineTx.DeleteBucket when the bucket doesn't exist.
var ErrBucketNotFound = errors.New("bucket not found")

// engine represents a key-value storage backend (Bolt, in-memory, Badger, etc.).
type engine interface {
	// BeginTx starts a new transaction. Writable transactions are
	// mutually exclusive; the scan-then-append sequence inside one
	// relies on that.
	BeginTx(writable bool) (engineTx, error)
	// Close closes the engine.
	Close() error
}

// engineTx represents a single atomic unit of work against the engine.
type engineTx interface {
	// Bucket returns a bucket. Use sub="" for a root bucket, non-empty for a nested bucket.
	// Returns nil if the bucket doesn't exist.
	Bucket(name, sub string) engineBucket

	// CreateBucket creates a bucket if it doesn't exist.
	// For sub != "", it must also ensure the root bucket exists.
	CreateBucket(name, sub string) (engineBucket, error)

	// DeleteBucket deletes a bucket. Use sub="" to drop the root bucket
	// together with everything nested under it.
	DeleteBucket(name, sub string) error

	// Commit commits the transaction.
	Commit() error

	// Rollback aborts the transaction. It should be safe to call multiple times.
	Rollback() error
}

// engineBucket represents a bucket (sorted key-value collection).
type engineBucket interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(key []byte) []byte

	// Put stores a key-value pair.
	Put(key, value []byte) error

	// Delete removes a key. Deleting an absent key is a no-op.
	Delete(key []byte) error

	// Cursor returns a cursor for iteration.
	Cursor() engineCursor

	// KeyCount returns the number of keys in the bucket.
	KeyCount() int
}

// engineCursor iterates over a sorted bucket.
type engineCursor interface {
	// First moves to the first key-value pair.
	First() (key, value []byte)

	// Last moves to the last key-value pair.
	Last() (key, value []byte)

	// Seek moves to the first key >= seek.
	Seek(seek []byte) (key, value []byte)

	// Next moves to the next key-value pair.
	Next() (key, value []byte)
}
