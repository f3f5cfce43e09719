package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		u, err := NewUser("Nadia", "nadia@example.com")

		require.NoError(t, err)
		assert.Equal(t, "Nadia", u.Name())
		assert.Equal(t, "nadia@example.com", u.Email())
		assert.False(t, u.CreatedAt().IsZero())
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewUser("", "nadia@example.com")
		assert.Error(t, err)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewUser("Nadia", "not-an-email")
		assert.Error(t, err)
	})
}
