package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("Success_WrapPreservesChain", func(t *testing.T) {
		wrapped := Wrap(ErrNotFound, "loading skill")

		assert.Error(t, wrapped)
		assert.True(t, Is(wrapped, ErrNotFound))
		assert.Contains(t, wrapped.Error(), "loading skill")
	})

	t.Run("Success_WrapNilReturnsNil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("Success_MultipleWraps", func(t *testing.T) {
		inner := Wrap(ErrConfiguration, "secret missing")
		outer := Wrap(inner, "generating token")

		assert.True(t, Is(outer, ErrConfiguration))
		assert.Contains(t, outer.Error(), "generating token")
		assert.Contains(t, outer.Error(), "secret missing")
	})
}

func TestIs(t *testing.T) {
	t.Run("Success_MatchesSentinel", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", ErrForbidden)
		assert.True(t, Is(err, ErrForbidden))
		assert.False(t, Is(err, ErrNotFound))
	})
}
