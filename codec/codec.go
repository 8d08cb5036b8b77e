// Package codec implements the posting-list wire format: sorted
// non-negative integers encode as delta+varint; anything
// else falls back to a plain JSON array, with no length prefix.
//
// The varint primitive is the standard library's encoding/binary
// Uvarint/PutUvarint, the same base-128 little-endian scheme used by
// the delta-encoded posting lists in oarkflow/velocity's search index
// (search_index.go, encodePostingList/decodePostingList). This
// package generalizes that pattern with an explicit encoding tag and a
// JSON fallback for non-integer posting payloads (string docIds,
// pre-serialized postings with metadata).
package codec

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/21nOrg/searchfn/ftserr"
)

const (
	DeltaVarint = "delta-varint"
	JSON        = "json"
)

// maxVarintBytes bounds a single varint at 5 bytes (35 bits of
// payload), the max width for a value in the non-negative integer
// domain this codec targets.
const maxVarintBytes = 5

// Encode chooses delta-varint when every element of values is a
// non-negative finite integer (uint64-representable), JSON otherwise.
// Mixed/string input, or an empty slice, take the corresponding path
// (empty -> zero-length delta-varint bytes).
func Encode(values []interface{}) ([]byte, string, error) {
	if len(values) == 0 {
		return []byte{}, DeltaVarint, nil
	}

	ints, ok := asNonNegativeInts(values)
	if ok {
		return encodeDeltaVarint(ints), DeltaVarint, nil
	}

	b, err := json.Marshal(values)
	if err != nil {
		return nil, "", ftserr.Wrap(ftserr.CodecError, "codec.Encode", err)
	}
	return b, JSON, nil
}

// EncodeInts is a typed convenience for the common non-negative
// integer posting case (docId lists).
func EncodeInts(values []uint64) ([]byte, string) {
	if len(values) == 0 {
		return []byte{}, DeltaVarint
	}
	sorted := append([]uint64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return encodeDeltaVarint(sorted), DeltaVarint
}

// Decode reverses Encode. For DeltaVarint it returns []interface{} of
// uint64; for JSON it returns the decoded array.
func Decode(data []byte, encoding string) ([]interface{}, error) {
	switch encoding {
	case DeltaVarint:
		ints, err := DecodeInts(data)
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(ints))
		for i, v := range ints {
			out[i] = v
		}
		return out, nil
	case JSON:
		if len(data) == 0 {
			return []interface{}{}, nil
		}
		var out []interface{}
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, ftserr.Wrap(ftserr.CodecError, "codec.Decode", err)
		}
		return out, nil
	default:
		return nil, ftserr.New(ftserr.CodecError, fmt.Sprintf("codec.Decode: unknown encoding %q", encoding))
	}
}

// DecodeInts decodes a delta-varint payload back into sorted uint64s.
func DecodeInts(data []byte) ([]uint64, error) {
	if len(data) == 0 {
		return []uint64{}, nil
	}
	out := make([]uint64, 0, len(data)/2+1)
	var prev uint64
	for len(data) > 0 {
		n := varintLen(data)
		if n > maxVarintBytes {
			return nil, ftserr.New(ftserr.CodecError, "codec.DecodeInts: varint overflow")
		}
		if n == 0 {
			return nil, ftserr.New(ftserr.CodecError, "codec.DecodeInts: truncated input")
		}
		delta, used := binary.Uvarint(data[:n])
		if used <= 0 {
			return nil, ftserr.New(ftserr.CodecError, "codec.DecodeInts: truncated input")
		}
		v := prev + delta
		out = append(out, v)
		prev = v
		data = data[n:]
	}
	return out, nil
}

// varintLen scans the leading varint in data and returns the number of
// bytes it occupies (continuation bytes carry the high bit). It
// returns 0 if the buffer ends before a terminating byte is found
// (truncated input), or a value > maxVarintBytes if the continuation
// run exceeds the 5-byte cap a well-formed varint must respect.
func varintLen(data []byte) int {
	for i := 0; i < len(data); i++ {
		if data[i]&0x80 == 0 {
			return i + 1
		}
		if i+1 >= maxVarintBytes {
			return i + 2
		}
	}
	return 0
}

func encodeDeltaVarint(sorted []uint64) []byte {
	buf := make([]byte, 0, len(sorted)*2)
	tmp := make([]byte, binary.MaxVarintLen64)
	var prev uint64
	for _, v := range sorted {
		delta := v - prev
		n := binary.PutUvarint(tmp, delta)
		buf = append(buf, tmp[:n]...)
		prev = v
	}
	return buf
}

func asNonNegativeInts(values []interface{}) ([]uint64, bool) {
	out := make([]uint64, len(values))
	for i, v := range values {
		u, ok := toNonNegativeUint64(v)
		if !ok {
			return nil, false
		}
		out[i] = u
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, true
}

func toNonNegativeUint64(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		if n < 0 || n != float64(uint64(n)) {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}
