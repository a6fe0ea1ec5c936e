package ordkv

import (
	"strings"
	"testing"
)

func TestRecordRoundtrip(t *testing.T) {
	for _, tt := range []struct {
		name  string
		key   string
		value any
		want  any
	}{
		{"string", "k", "hello", "hello"},
		{"int", "k", 42, int64(42)},
		{"nil", "k", nil, nil},
		{"unset", "k", Unset, Unset},
		{"empty key", "", "v", "v"},
		{"map", "k", map[string]any{"a": int64(1)}, map[string]any{"a": int64(1)}},
		{"list", "k", []any{"x", int64(2)}, []any{"x", int64(2)}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			raw := must(encodeRecord(tt.key, tt.value))
			key, value, err := decodeRecord(raw)
			ensureErr(t, err)
			deepEqual(t, key, tt.key)
			deepEqual(t, value, tt.want)

			keyOnly, err := decodeRecordKey(raw)
			ensureErr(t, err)
			deepEqual(t, keyOnly, tt.key)
		})
	}
}

func TestRecordCompression(t *testing.T) {
	big := strings.Repeat("all work and no play makes jack a dull boy. ", 200)
	raw := must(encodeRecord("novel", big))
	if len(raw) >= len(big) {
		t.Errorf("** compressible payload did not shrink: %d >= %d", len(raw), len(big))
	}

	_, _, flags, err := splitRecord(raw)
	ensureErr(t, err)
	if flags&rfZstd == 0 {
		t.Errorf("** zstd flag not set on a large compressible payload")
	}

	key, value, err := decodeRecord(raw)
	ensureErr(t, err)
	deepEqual(t, key, "novel")
	deepEqual(t, value, any(big))
}

func TestRecordSmallValuesStayUncompressed(t *testing.T) {
	raw := must(encodeRecord("k", "tiny"))
	_, _, flags, err := splitRecord(raw)
	ensureErr(t, err)
	if flags&rfZstd != 0 {
		t.Errorf("** zstd flag set on a tiny payload")
	}
}

func TestRecordDecodeErrors(t *testing.T) {
	if _, _, err := decodeRecord(nil); err == nil {
		t.Errorf("** decoding empty record succeeded")
	}
	// Flags claiming an unknown format version.
	if _, _, err := decodeRecord([]byte{0x02, 0x00}); err == nil {
		t.Errorf("** decoding unknown format version succeeded")
	}
	// Key length running past the end of the data.
	if _, _, err := decodeRecord([]byte{0x01, 0x7F}); err == nil {
		t.Errorf("** decoding truncated key succeeded")
	}
}

func TestOrdKeyEncoding(t *testing.T) {
	for _, ord := range []uint64{0, 1, 255, 256, 1 << 40} {
		deepEqual(t, parseOrdKey(ordKey(ord)), ord)
	}

	// Big-endian keys must sort numerically under a byte-wise cursor.
	prev := ordKey(0)
	for _, ord := range []uint64{1, 2, 255, 256, 65536, 1 << 40} {
		cur := ordKey(ord)
		if string(prev) >= string(cur) {
			t.Errorf("** ordinal keys out of order at %d", ord)
		}
		prev = cur
	}
}

func TestCloneValue(t *testing.T) {
	orig := map[string]any{"list": []any{int64(1), int64(2)}}
	cloned := must(cloneValue(orig)).(map[string]any)
	cloned["list"].([]any)[0] = int64(99)
	deepEqual(t, orig, map[string]any{"list": []any{int64(1), int64(2)}})

	deepEqual(t, must(cloneValue(nil)), nil)
	deepEqual(t, must(cloneValue(Unset)), Unset)
}

func TestUnsetSentinel(t *testing.T) {
	if !IsUnset(Unset) {
		t.Errorf("** IsUnset(Unset) = false")
	}
	if IsUnset(nil) {
		t.Errorf("** IsUnset(nil) = true")
	}
	if IsUnset("unset") {
		t.Errorf("** IsUnset(string) = true")
	}
}
