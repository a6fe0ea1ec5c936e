package ordkv

import "fmt"

// Get returns the value stored for key, freshly decoded so that
// mutating it never affects later reads. When the stored result is
// unset (no record, or a record holding the Unset sentinel), the
// default overlay is consulted; if it has no value either, Unset is
// returned. A stored nil is nil, not unset.
func (s *Store) Get(key string) (any, error) {
	v, err := s.GetStored(key)
	if err != nil || !IsUnset(v) {
		return v, err
	}
	return s.defaultFor(key), nil
}

// GetStored is Get without the default overlay: the engine's answer
// only, Unset when there is none.
func (s *Store) GetStored(key string) (any, error) {
	if err := s.guard("get"); err != nil {
		return nil, err
	}
	var out any = Unset
	err := s.read(func(tx engineTx) error {
		keys := nonNil(tx.Bucket(s.name, keysBucket))
		ordRaw := keys.Get([]byte(key))
		if ordRaw == nil {
			return nil
		}
		records := nonNil(tx.Bucket(s.name, recordsBucket))
		rec := records.Get(ordRaw)
		if rec == nil {
			return fmt.Errorf("key index points at missing ordinal %d", parseOrdKey(ordRaw))
		}
		_, v, err := decodeRecord(rec)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, s.wrap("get", key, err)
	}
	return out, nil
}

// Has reports whether a record exists for key. A record holding the
// Unset sentinel still counts: the key occupies an ordinal.
func (s *Store) Has(key string) (bool, error) {
	if err := s.guard("has"); err != nil {
		return false, err
	}
	var found bool
	err := s.read(func(tx engineTx) error {
		keys := nonNil(tx.Bucket(s.name, keysBucket))
		found = keys.Get([]byte(key)) != nil
		return nil
	})
	if err != nil {
		return false, s.wrap("has", key, err)
	}
	return found, nil
}
