package ordkv

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Unset is the distinguished “no value” marker. It is what reads return
// for keys that have no record, and it can itself be stored, in which
// case reading the key behaves exactly like reading an absent one
// (including default overlay substitution). It is not nil: a stored nil
// reads back as nil and never triggers the overlay.
var Unset any = unsetType{}

type unsetType struct{}

func (unsetType) String() string { return "<unset>" }

// IsUnset reports whether v is the Unset sentinel.
func IsUnset(v any) bool {
	_, ok := v.(unsetType)
	return ok
}

// Entry is a single live record: a dense insertion-order ordinal, a
// case-sensitive key unique within the store, and an opaque value.
type Entry struct {
	Ordinal int
	Key     string
	Value   any
}

const (
	ordKeyLen = 8

	compressMinSize    = 1024
	maxRecordKeyLength = 1 << 20 // sanity value, can be increased
)

type recordFlags uint64

const (
	rfVerBit0 = recordFlags(1 << iota)
	rfVerBit1
	rfUnset
	rfZstd

	rfVerMask       = rfVerBit0 | rfVerBit1
	rfVer1          = rfVerBit0
	rfSupportedMask = rfVer1 | rfUnset | rfZstd
)

var (
	zstdEnc = must(zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1)))
	zstdDec = must(zstd.NewReader(nil))
)

func ordKey(ord uint64) []byte {
	var buf [ordKeyLen]byte
	binary.BigEndian.PutUint64(buf[:], ord)
	return buf[:]
}

func parseOrdKey(raw []byte) uint64 {
	if len(raw) != ordKeyLen {
		panic(fmt.Errorf("invalid ordinal key length %d", len(raw)))
	}
	return binary.BigEndian.Uint64(raw)
}

// encodeRecord builds the persisted form of an entry: flags uvarint,
// key length uvarint, key bytes, then the msgpack payload (zstd'ed when
// that actually shrinks it). Encoding happens at Set time, so the
// stored bytes never alias the caller's value.
func encodeRecord(key string, value any) ([]byte, error) {
	flags := rfVer1
	var payload []byte
	if IsUnset(value) {
		flags |= rfUnset
	} else {
		var err error
		payload, err = encodeValue(value)
		if err != nil {
			return nil, err
		}
		if len(payload) >= compressMinSize {
			packed := zstdEnc.EncodeAll(payload, make([]byte, 0, len(payload)))
			if len(packed) < len(payload) {
				flags |= rfZstd
				payload = packed
			}
		}
	}

	buf := make([]byte, 0, 2*binary.MaxVarintLen64+len(key)+len(payload))
	buf = binary.AppendUvarint(buf, uint64(flags))
	buf = binary.AppendUvarint(buf, uint64(len(key)))
	buf = append(buf, key...)
	buf = append(buf, payload...)
	return buf, nil
}

func decodeRecord(data []byte) (string, any, error) {
	key, payload, flags, err := splitRecord(data)
	if err != nil {
		return "", nil, err
	}
	if flags&rfUnset != 0 {
		return key, Unset, nil
	}
	if flags&rfZstd != 0 {
		payload, err = zstdDec.DecodeAll(payload, nil)
		if err != nil {
			return key, nil, dataErrf(data, 0, err, "decompressing record payload")
		}
	}
	value, err := decodeValue(payload)
	if err != nil {
		return key, nil, dataErrf(data, len(data)-len(payload), err, "decoding record payload")
	}
	return key, value, nil
}

// decodeRecordKey extracts the key without touching the payload;
// compaction uses it to fix up the key index when records move.
func decodeRecordKey(data []byte) (string, error) {
	key, _, _, err := splitRecord(data)
	return key, err
}

func splitRecord(data []byte) (key string, payload []byte, flags recordFlags, err error) {
	f, n := binary.Uvarint(data)
	if n <= 0 {
		return "", nil, 0, dataErrf(data, 0, nil, "invalid record flags")
	}
	off := n
	flags = recordFlags(f)
	if flags&rfVerMask != rfVer1 {
		return "", nil, 0, dataErrf(data, 0, nil, "unsupported record format %d", flags&rfVerMask)
	}
	if flags&^rfSupportedMask != 0 {
		return "", nil, 0, dataErrf(data, 0, nil, "unsupported record flags %x", uint64(flags))
	}
	keyLen, n := binary.Uvarint(data[off:])
	if n <= 0 || keyLen > maxRecordKeyLength || off+n+int(keyLen) > len(data) {
		return "", nil, 0, dataErrf(data, off, nil, "invalid record key length")
	}
	off += n
	key = string(data[off : off+int(keyLen)])
	return key, data[off+int(keyLen):], flags, nil
}

func encodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	err := enc.Encode(v)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T using MsgPack: %w", v, err)
	}
	return buf.Bytes(), nil
}

// decodeValue decodes into msgpack's loose forms (int64, float64,
// string, map[string]any, []any) so that reads are stable regardless of
// the Go type the value was written as.
func decodeValue(payload []byte) (any, error) {
	var r bytes.Reader
	r.Reset(payload)
	dec := msgpack.GetDecoder()
	dec.Reset(&r)
	v, err := dec.DecodeInterfaceLoose()
	msgpack.PutDecoder(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode value using MsgPack: %w", err)
	}
	return v, nil
}

// cloneValue deep-copies a value by round-tripping it through the
// codec. The overlay uses it so that neither the caller's objects nor
// the returned ones alias overlay state.
func cloneValue(v any) (any, error) {
	if v == nil || IsUnset(v) {
		return v, nil
	}
	raw, err := encodeValue(v)
	if err != nil {
		return nil, err
	}
	return decodeValue(raw)
}
