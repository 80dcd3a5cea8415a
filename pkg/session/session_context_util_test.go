package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentId(t *testing.T) {
	t.Run("should fail without a session", func(t *testing.T) {
		_, err := CurrentId(context.Background())

		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("should return the stored session", func(t *testing.T) {
		id := NewId()
		ctx := WithSession(context.Background(), id)

		got, err := CurrentId(ctx)

		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("should treat an empty id as missing", func(t *testing.T) {
		_, err := CurrentId(WithSession(context.Background(), ""))

		assert.ErrorIs(t, err, ErrNoSession)
	})
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(NewId()))
	assert.False(t, Valid("not-a-session"))
	assert.False(t, Valid(""))
}

func TestNormalize(t *testing.T) {
	id := "6f1c9a52-3b7e-4d0a-9e4f-2c8b1d7a5e60"

	for _, spelling := range []string{
		id,
		"6F1C9A52-3B7E-4D0A-9E4F-2C8B1D7A5E60",
		"{6f1c9a52-3b7e-4d0a-9e4f-2c8b1d7a5e60}",
		"urn:uuid:6f1c9a52-3b7e-4d0a-9e4f-2c8b1d7a5e60",
		"6f1c9a523b7e4d0a9e4f2c8b1d7a5e60",
	} {
		normalized, ok := Normalize(spelling)

		require.True(t, ok, spelling)
		assert.Equal(t, id, normalized, spelling)
	}

	_, ok := Normalize("not-a-session")
	assert.False(t, ok)
}
