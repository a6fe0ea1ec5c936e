package ordkv

import (
	"log/slog"
	"slices"
)

const debugLogCompaction = false

// Remove deletes the record for key, if any, then compacts: every
// surviving record above the removed slot moves down by exactly one
// ordinal, in ascending order, restoring the dense 0..size-1 sequence
// without reordering anything. Removing an absent key is a no-op.
func (s *Store) Remove(key string) error {
	if err := s.guard("remove"); err != nil {
		return err
	}
	err := s.write(func(tx engineTx) error {
		records := nonNil(tx.Bucket(s.name, recordsBucket))
		keys := nonNil(tx.Bucket(s.name, keysBucket))

		ordRaw := keys.Get([]byte(key))
		if ordRaw == nil {
			s.logv("ordkv: REMOVE.NOOP %s/%s", s.name, key)
			return nil
		}
		removed := parseOrdKey(ordRaw)

		if err := records.Delete(ordKey(removed)); err != nil {
			return err
		}
		if err := keys.Delete([]byte(key)); err != nil {
			return err
		}
		s.logv("ordkv: REMOVE %s/%s (ordinal %d)", s.name, key, removed)

		return compactAbove(records, keys, removed)
	})
	return s.wrap("remove", key, err)
}

// compactAbove shifts every record with an ordinal greater than the
// freed slot down by one, walking upward from just above it. Ordinals
// are dense, so the walk is a plain ascending cursor scan.
func compactAbove(records, keys engineBucket, removed uint64) error {
	type moved struct {
		ord uint64
		rec []byte
	}
	var tail []moved
	c := records.Cursor()
	for k, v := c.Seek(ordKey(removed + 1)); k != nil; k, v = c.Next() {
		tail = append(tail, moved{parseOrdKey(k), slices.Clone(v)})
	}
	if debugLogCompaction {
		slog.Debug("ordkv: compacting", "above", removed, "moved", len(tail))
	}

	for _, m := range tail {
		if err := records.Delete(ordKey(m.ord)); err != nil {
			return err
		}
		if err := records.Put(ordKey(m.ord-1), m.rec); err != nil {
			return err
		}
		movedKey, err := decodeRecordKey(m.rec)
		if err != nil {
			return err
		}
		if err := keys.Put([]byte(movedKey), ordKey(m.ord-1)); err != nil {
			return err
		}
	}
	return nil
}

// Clear deletes every record; the next insert starts at ordinal 0.
// The default overlay is untouched.
func (s *Store) Clear() error {
	if err := s.guard("clear"); err != nil {
		return err
	}
	err := s.write(func(tx engineTx) error {
		for _, sub := range []string{recordsBucket, keysBucket} {
			if err := tx.DeleteBucket(s.name, sub); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(s.name, sub); err != nil {
				return err
			}
		}
		return nil
	})
	s.logv("ordkv: CLEAR %s", s.name)
	return s.wrap("clear", "", err)
}
