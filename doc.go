/*
Package ordkv implements an insertion-ordered key-value store on top of
a storage engine that only offers primary-record access, range cursors
and secondary lookup (Bolt in production, an in-memory engine in tests).

We implement:

1. Ordered entries. Every live entry carries a dense ordinal 0..size-1
reflecting insertion order. Updates keep the ordinal; deletions compact
the tail so the sequence never has gaps.

2. Two lookup paths over the same data: by ordinal (iteration, KeyAt)
and by key (Get, Set, Remove).

3. A default overlay: an in-memory key→value map consulted when a read
comes back unset. Never persisted, invisible to a fresh Store over the
same data.

4. Whole-store deletion with a terminal lifecycle state: after
DeleteStore every data operation fails with ErrStoreDeleted without
touching the engine.

Every operation is its own unit of work. It begins an engine
transaction, does all of its reads and writes inside that one
transaction, and commits or rolls back before returning; nothing is
held across calls. The engine serializes writable transactions, which
is what makes the max-ordinal scan followed by an append atomic.

# Technical Details

**Buckets.**
Each logical store owns one root bucket named after the store, with two
nested buckets: “records” maps 8-byte big-endian ordinals to encoded
entries, “keys” maps raw key bytes to 8-byte big-endian ordinals.

**Values** are opaque. They are msgpack-encoded on Set and freshly
decoded on every read, so stored data never aliases caller data in
either direction. Reads hand back msgpack's loose forms (int64,
float64, string, map[string]any, []any).

**Record encoding**:
1. Flags (uvarint): format version bits, unset bit, zstd bit.
2. Key length (uvarint), key bytes.
3. Value payload: msgpack, zstd-compressed when that makes it smaller.

An entry whose value is the Unset sentinel is persisted with the unset
bit and no payload. A stored nil is a real msgpack nil payload; the two
never mix, which is what keeps explicit nils from falling through to
the default overlay.
*/
package ordkv
