package codec

import (
	"testing"

	"github.com/21nOrg/searchfn/ftserr"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeIntsRoundTrip(t *testing.T) {
	values := []interface{}{uint64(3), uint64(10), uint64(11), uint64(25), uint64(26)}
	b, enc, err := Encode(values)
	require.NoError(t, err)
	require.Equal(t, DeltaVarint, enc)

	got, err := Decode(b, enc)
	require.NoError(t, err)
	require.Equal(t, []interface{}{uint64(3), uint64(10), uint64(11), uint64(25), uint64(26)}, got)
}

func TestEncodeDecodeStringsJSON(t *testing.T) {
	values := []interface{}{"doc-1", "doc-2"}
	b, enc, err := Encode(values)
	require.NoError(t, err)
	require.Equal(t, JSON, enc)

	got, err := Decode(b, enc)
	require.NoError(t, err)
	require.Equal(t, []interface{}{"doc-1", "doc-2"}, got)
}

func TestEmptyRoundTripsDeltaVarint(t *testing.T) {
	b, enc, err := Encode(nil)
	require.NoError(t, err)
	require.Equal(t, DeltaVarint, enc)
	require.Len(t, b, 0)

	got, err := Decode(b, enc)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUnsortedIntsSortOnEncode(t *testing.T) {
	b, enc := EncodeInts([]uint64{26, 3, 25, 10, 11})
	ints, err := DecodeInts(b)
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 10, 11, 25, 26}, ints)
	require.Equal(t, DeltaVarint, enc)
}

func TestDecodeTruncatedInput(t *testing.T) {
	// A single continuation byte with no terminator is truncated.
	_, err := DecodeInts([]byte{0x80})
	require.Error(t, err)
	require.True(t, ftserr.Is(err, ftserr.CodecError))
}

func TestDecodeVarintOverflow(t *testing.T) {
	// Five continuation bytes followed by a terminator make a 6-byte
	// varint, which exceeds the 5-byte cap.
	overflow := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	_, err := DecodeInts(overflow)
	require.Error(t, err)
	require.True(t, ftserr.Is(err, ftserr.CodecError))
}

func TestDecodeNonArrayJSONIsError(t *testing.T) {
	_, err := Decode([]byte(`{"not":"an array"}`), JSON)
	require.Error(t, err)
	require.True(t, ftserr.Is(err, ftserr.CodecError))
}

func TestMixedValuesUseJSON(t *testing.T) {
	values := []interface{}{"doc-1", float64(2)}
	b, enc, err := Encode(values)
	require.NoError(t, err)
	require.Equal(t, JSON, enc)
	got, err := Decode(b, enc)
	require.NoError(t, err)
	require.Equal(t, values, got)
}
