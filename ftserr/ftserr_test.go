package ftserr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapReturnsNilForNilCause(t *testing.T) {
	require.Nil(t, Wrap(CodecError, "op", nil))
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(AdapterUnavailable, "adapter.Open", cause)
	require.ErrorIs(t, err, cause)
}

func TestIsMatchesWrappedKind(t *testing.T) {
	err := Wrap(TransactionFailed, "tx.Commit", errors.New("disk full"))
	require.True(t, Is(err, TransactionFailed))
	require.False(t, Is(err, CodecError))
}

func TestIsReturnsFalseForForeignError(t *testing.T) {
	require.False(t, Is(errors.New("plain"), InputRejected))
}

func TestNewHasNoCause(t *testing.T) {
	err := New(DocumentProcessingError, "pipeline.Run")
	require.Nil(t, err.Unwrap())
	require.Equal(t, "pipeline.Run: DocumentProcessingError", err.Error())
}
