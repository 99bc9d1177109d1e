package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := Encode(Cursor{Recipient: 7, ActorID: 42, SwipeUnix: 1714564800000})
	require.NoError(t, err)

	c, err := Decode(token, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.ActorID)
	assert.Equal(t, int64(1714564800000), c.SwipeUnix)
}

func TestDecodeEmptyIsFirstPage(t *testing.T) {
	c, err := Decode("", 7)
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}

func TestDecodeRejectsForeignRecipient(t *testing.T) {
	token, err := Encode(Cursor{Recipient: 7, ActorID: 42})
	require.NoError(t, err)

	_, err = Decode(token, 8)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	// bad base64, not json, zero actor
	for _, token := range []string{"%%%", "bm90IGpzb24", "eyJyIjoxLCJhIjowfQ"} {
		_, err := Decode(token, 1)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}
