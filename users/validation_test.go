package users_test

import (
	"testing"

	"github.com/jrsteele09/go-match-tracker/users"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	require.NoError(t, users.ValidateIdentifier("alice"))
	require.NoError(t, users.ValidateIdentifier(" alice@example.com "))

	err := users.ValidateIdentifier("  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "required")

	err = users.ValidateIdentifier("alice@nowhere")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid email format")
}

func TestValidateRegistration(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, users.ValidateRegistration("carol", "carol@example.com", "secret99"))
	})

	t.Run("username with spaces", func(t *testing.T) {
		err := users.ValidateRegistration("carol jones", "carol@example.com", "secret99")
		require.Error(t, err)
		require.Contains(t, err.Error(), "whitespace")
	})

	t.Run("bad email", func(t *testing.T) {
		err := users.ValidateRegistration("carol", "@example.com", "secret99")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid email format")
	})

	t.Run("missing password", func(t *testing.T) {
		err := users.ValidateRegistration("carol", "carol@example.com", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "password is required")
	})
}
