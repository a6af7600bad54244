package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSystemKeyring_RoundTrip(t *testing.T) {
	keyring.MockInit()
	k := &systemKeyring{}

	require.True(t, k.IsAvailable())

	_, err := k.GetKey()
	require.ErrorIs(t, err, keyring.ErrNotFound)

	require.Error(t, k.SetKey(""))
	require.NoError(t, k.SetKey("hunter2"))

	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", key)

	require.NoError(t, k.DeleteKey())
	require.ErrorIs(t, k.DeleteKey(), keyring.ErrNotFound)
}

func TestEnvKeyring_EnvironmentWins(t *testing.T) {
	keyring.MockInit()
	system := &systemKeyring{}
	require.NoError(t, system.SetKey("stored"))

	k := &envKeyring{next: system}

	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "stored", key)

	t.Setenv(EnvKey, "from-env")
	key, err = k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestEnvKeyring_WithoutSystemStore(t *testing.T) {
	t.Setenv(EnvKey, "")
	k := &envKeyring{}

	assert.False(t, k.IsAvailable())
	_, err := k.GetKey()
	require.Error(t, err)

	err = k.SetKey("secret")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret", "never echo the password")

	t.Setenv(EnvKey, "abc")
	assert.True(t, k.IsAvailable())
}
