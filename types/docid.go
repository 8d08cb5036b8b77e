// Package types holds the data model shared across the search kernel:
// document identifiers, tokens, postings, stats snapshots and the
// construction-time configuration structs.
package types

import "strconv"

// DocId is either a non-negative integer or a string identifier. It
// canonicalises to a string for hashing, persistence and snapshotting;
// identifier equality is string equality of the canonical form.
type DocId struct {
	isInt bool
	i     uint64
	s     string
}

// IntDocId builds a DocId from a non-negative integer.
func IntDocId(v uint64) DocId {
	return DocId{isInt: true, i: v}
}

// StringDocId builds a DocId from a string.
func StringDocId(v string) DocId {
	return DocId{s: v}
}

// Canonical returns the string form used for hashing, persistence and
// snapshots.
func (d DocId) Canonical() string {
	if d.isInt {
		return strconv.FormatUint(d.i, 10)
	}
	return d.s
}

func (d DocId) String() string { return d.Canonical() }

// IsInt reports whether the DocId was constructed from an integer.
func (d DocId) IsInt() bool { return d.isInt }

// Int returns the underlying integer value and true if IsInt.
func (d DocId) Int() (uint64, bool) {
	if !d.isInt {
		return 0, false
	}
	return d.i, true
}

// Equal compares two DocIds by their canonical string form.
func (d DocId) Equal(other DocId) bool {
	return d.Canonical() == other.Canonical()
}

// ParseDocId canonicalises a raw value coming off the wire (JSON
// numbers decode as float64, JSON strings as string) into a DocId.
func ParseDocId(raw interface{}) (DocId, bool) {
	switch v := raw.(type) {
	case string:
		return StringDocId(v), true
	case float64:
		if v >= 0 && v == float64(uint64(v)) {
			return IntDocId(uint64(v)), true
		}
		return DocId{}, false
	case uint64:
		return IntDocId(v), true
	case int:
		if v < 0 {
			return DocId{}, false
		}
		return IntDocId(uint64(v)), true
	default:
		return DocId{}, false
	}
}
