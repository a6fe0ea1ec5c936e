package ordkv

// The default overlay is a purely in-memory key→value map rebuilt from
// scratch on every Store instantiation. It never touches the engine:
// a fresh Store over the same persisted data starts with an empty
// overlay. Reads consult it only when the stored result is unset.
//
// Values are deep-copied both into and out of the overlay via the
// codec, so callers and overlay state never alias. An unencodable
// value is programmer misuse and panics, which keeps these operations
// synchronous like the rest of the overlay contract.

// AddDefault merges the given key→value pairs into the overlay,
// overwriting same-named keys and leaving the rest untouched.
func (s *Store) AddDefault(values map[string]any) {
	s.defaultsMu.Lock()
	defer s.defaultsMu.Unlock()
	for k, v := range values {
		s.defaults[k] = must(cloneValue(v))
	}
}

// SetDefault replaces the overlay with exactly the given pairs.
func (s *Store) SetDefault(values map[string]any) {
	m := make(map[string]any, len(values))
	for k, v := range values {
		m[k] = must(cloneValue(v))
	}
	s.defaultsMu.Lock()
	defer s.defaultsMu.Unlock()
	s.defaults = m
}

// GetDefault returns a copy of the current overlay contents.
func (s *Store) GetDefault() map[string]any {
	s.defaultsMu.Lock()
	defer s.defaultsMu.Unlock()
	out := make(map[string]any, len(s.defaults))
	for k, v := range s.defaults {
		out[k] = must(cloneValue(v))
	}
	return out
}

// ClearDefault empties the overlay.
func (s *Store) ClearDefault() {
	s.defaultsMu.Lock()
	defer s.defaultsMu.Unlock()
	s.defaults = make(map[string]any)
}

// defaultFor returns a copy of the overlay value for key, or Unset.
func (s *Store) defaultFor(key string) any {
	s.defaultsMu.Lock()
	defer s.defaultsMu.Unlock()
	v, found := s.defaults[key]
	if !found {
		return Unset
	}
	return must(cloneValue(v))
}
