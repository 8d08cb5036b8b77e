package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertIsIdempotent(t *testing.T) {
	v := New()
	require.True(t, v.Insert("anthropic"))
	require.False(t, v.Insert("anthropic"))
	require.True(t, v.Has("anthropic"))
}

func TestOnMutateFiresOnInsertAndClear(t *testing.T) {
	v := New()
	calls := 0
	v.OnMutate(func() { calls++ })

	v.Insert("a")
	require.Equal(t, 1, calls)

	v.Insert("a") // no-op insert, should not notify
	require.Equal(t, 1, calls)

	v.Clear()
	require.Equal(t, 2, calls)
	require.False(t, v.Has("a"))
}
