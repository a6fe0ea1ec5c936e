package ordkv

import "testing"

func TestDefaultOverlay(t *testing.T) {
	s := setup(t)

	s.AddDefault(map[string]any{"theme": "light", "limit": int64(50)})
	deepEqual(t, must(s.Get("theme")), any("light"))
	deepEqual(t, must(s.Get("limit")), any(int64(50)))

	// A stored value wins over the overlay.
	ensureErr(t, s.Set("theme", "dark"))
	deepEqual(t, must(s.Get("theme")), any("dark"))

	// A stored unset sentinel falls through to the overlay again.
	ensureErr(t, s.Set("theme", Unset))
	deepEqual(t, must(s.Get("theme")), any("light"))

	// A stored nil does NOT fall through.
	ensureErr(t, s.Set("limit", nil))
	if v := must(s.Get("limit")); v != nil {
		t.Errorf("** got %v, wanted nil", v)
	}

	// The overlay never creates records.
	deepEqual(t, must(s.Has("missing")), false)
	checkOrder(t, s, "theme", "limit")
}

func TestAddDefaultMerges(t *testing.T) {
	s := setup(t)

	s.AddDefault(map[string]any{"a": int64(1), "b": int64(2)})
	s.AddDefault(map[string]any{"b": int64(22), "c": int64(3)})
	deepEqual(t, s.GetDefault(), map[string]any{"a": int64(1), "b": int64(22), "c": int64(3)})

	s.SetDefault(map[string]any{"only": "this"})
	deepEqual(t, s.GetDefault(), map[string]any{"only": "this"})

	s.ClearDefault()
	deepEqual(t, s.GetDefault(), map[string]any{})
	deepEqual(t, must(s.Get("only")), Unset)
}

func TestDefaultsAreCopied(t *testing.T) {
	s := setup(t)

	in := map[string]any{"cfg": map[string]any{"n": int64(1)}}
	s.AddDefault(in)
	in["cfg"].(map[string]any)["n"] = int64(99)
	deepEqual(t, must(s.Get("cfg")), any(map[string]any{"n": int64(1)}))

	out := must(s.Get("cfg")).(map[string]any)
	out["n"] = int64(77)
	deepEqual(t, must(s.Get("cfg")), any(map[string]any{"n": int64(1)}))

	snap := s.GetDefault()
	snap["cfg"].(map[string]any)["n"] = int64(55)
	deepEqual(t, must(s.Get("cfg")), any(map[string]any{"n": int64(1)}))
}

func TestOverlayIsNotPersisted(t *testing.T) {
	path := tempPath(t)

	s := must(Open(path, Options{IsTesting: true}))
	s.AddDefault(map[string]any{"theme": "light"})
	ensureErr(t, s.Set("real", 1))
	ensureErr(t, s.Close())

	s = must(Open(path, Options{IsTesting: true}))
	t.Cleanup(func() { s.Close() })
	deepEqual(t, s.GetDefault(), map[string]any{})
	deepEqual(t, must(s.Get("theme")), Unset)
	deepEqual(t, must(s.Get("real")), any(int64(1)))
}
