package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/21nOrg/searchfn/types"
)

func TestAverageLengthEmptyIsOne(t *testing.T) {
	s := New()
	require.Equal(t, float64(1), s.AverageLength())
}

func TestAddRemoveAdjustsTotals(t *testing.T) {
	s := New()
	s.AddDocument("1", 10)
	s.AddDocument("2", 20)
	require.Equal(t, float64(15), s.AverageLength())

	s.RemoveDocument("1")
	require.Equal(t, float64(20), s.AverageLength())
	require.Equal(t, 1, s.Count())
}

func TestOverwriteAdjustsRunningTotal(t *testing.T) {
	s := New()
	s.AddDocument("1", 10)
	s.AddDocument("1", 30)
	require.Equal(t, float64(30), s.AverageLength())
	require.Equal(t, 1, s.Count())
}

func TestSnapshotLoadRoundTrip(t *testing.T) {
	s := New()
	s.AddDocument("2", 5)
	s.AddDocument("1", 7)
	snap := s.Snapshot()
	require.Equal(t, []types.DocLengthEntry{{DocId: "1", Length: 7}, {DocId: "2", Length: 5}}, snap)

	s2 := New()
	s2.Load(snap)
	require.Equal(t, s.AverageLength(), s2.AverageLength())
	require.Equal(t, s.Count(), s2.Count())
}
