package ordkv

import "slices"

// Set stores value under key. An existing key keeps its ordinal and has
// its record replaced in place; a new key is appended after the current
// maximum ordinal (0 for an empty store). The value is encoded before
// the transaction starts, so later mutation of the caller's object has
// no effect on what was stored.
func (s *Store) Set(key string, value any) error {
	if err := s.guard("set"); err != nil {
		return err
	}
	rec, err := encodeRecord(key, value)
	if err != nil {
		return s.wrap("set", key, err)
	}
	err = s.write(func(tx engineTx) error {
		records := nonNil(tx.Bucket(s.name, recordsBucket))
		keys := nonNil(tx.Bucket(s.name, keysBucket))

		if ordRaw := keys.Get([]byte(key)); ordRaw != nil {
			// Update in place, ordinal preserved.
			s.logv("ordkv: SET %s/%s (update)", s.name, key)
			return records.Put(slices.Clone(ordRaw), rec)
		}

		// New key: scan the record bucket from the top for the max
		// ordinal, then append just past it. Both steps share this
		// transaction, so concurrent appends cannot pick the same slot.
		next := uint64(0)
		if k, _ := records.Cursor().Last(); k != nil {
			next = parseOrdKey(k) + 1
		}
		s.logv("ordkv: SET %s/%s (append at %d)", s.name, key, next)
		if err := records.Put(ordKey(next), rec); err != nil {
			return err
		}
		return keys.Put([]byte(key), ordKey(next))
	})
	return s.wrap("set", key, err)
}
