package ordkv

import "iter"

// Size returns the number of live records.
func (s *Store) Size() (int, error) {
	if err := s.guard("size"); err != nil {
		return 0, err
	}
	var n int
	err := s.read(func(tx engineTx) error {
		n = nonNil(tx.Bucket(s.name, recordsBucket)).KeyCount()
		return nil
	})
	if err != nil {
		return 0, s.wrap("size", "", err)
	}
	return n, nil
}

// KeyAt returns the key of the record at the given ordinal, or false
// when no record has that ordinal.
func (s *Store) KeyAt(ordinal int) (string, bool, error) {
	if err := s.guard("keyAt"); err != nil {
		return "", false, err
	}
	if ordinal < 0 {
		return "", false, nil
	}
	var key string
	var found bool
	err := s.read(func(tx engineTx) error {
		records := nonNil(tx.Bucket(s.name, recordsBucket))
		rec := records.Get(ordKey(uint64(ordinal)))
		if rec == nil {
			return nil
		}
		var err error
		key, err = decodeRecordKey(rec)
		found = err == nil
		return err
	})
	if err != nil {
		return "", false, s.wrap("keyAt", "", err)
	}
	return key, found, nil
}

// Entries iterates over all live records in ascending ordinal order.
// The whole walk runs inside one read transaction, and every value is
// freshly decoded, so mutating a yielded value never affects the store.
// Each call re-reads current state; the returned sequence is one-shot.
func (s *Store) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		if err := s.guard("entries"); err != nil {
			yield(Entry{}, err)
			return
		}
		err := s.read(func(tx engineTx) error {
			records := nonNil(tx.Bucket(s.name, recordsBucket))
			c := records.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				key, value, err := decodeRecord(v)
				if err != nil {
					return err
				}
				if !yield(Entry{Ordinal: int(parseOrdKey(k)), Key: key, Value: value}, nil) {
					return nil
				}
			}
			return nil
		})
		if err != nil {
			yield(Entry{}, s.wrap("entries", "", err))
		}
	}
}

// Keys returns all keys in ascending ordinal order. Unlike Entries it
// skips payload decoding entirely.
func (s *Store) Keys() ([]string, error) {
	if err := s.guard("keys"); err != nil {
		return nil, err
	}
	var out []string
	err := s.read(func(tx engineTx) error {
		records := nonNil(tx.Bucket(s.name, recordsBucket))
		c := records.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			key, err := decodeRecordKey(v)
			if err != nil {
				return err
			}
			out = append(out, key)
		}
		return nil
	})
	if err != nil {
		return nil, s.wrap("keys", "", err)
	}
	return out, nil
}

// DeleteStore irreversibly destroys the persisted store, then flips the
// lifecycle state so that every subsequent data operation fails with
// ErrStoreDeleted. The destructive step runs at most once; a second
// call is rejected by the lifecycle check like any other operation.
func (s *Store) DeleteStore() error {
	if err := s.guard("deleteStore"); err != nil {
		return err
	}
	err := s.write(func(tx engineTx) error {
		return tx.DeleteBucket(s.name, "")
	})
	if err != nil {
		return s.wrap("deleteStore", "", err)
	}
	s.deleted.Store(true)
	s.logv("ordkv: DELETED %s", s.name)
	return nil
}
