package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestGet_KeyringThenEnv(t *testing.T) {
	keyring.MockInit()
	t.Setenv("NIGARAN_MAIL_API_KEY", "from-env")

	v, err := Get(MailAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)

	require.NoError(t, Set(MailAPIKey, "from-keyring"))
	v, err = Get(MailAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", v)

	require.NoError(t, Delete(MailAPIKey))
	require.NoError(t, Delete(MailAPIKey), "deleting twice is fine")
	v, _ = Get(MailAPIKey)
	assert.Equal(t, "from-env", v)
}

func TestGet_Missing(t *testing.T) {
	keyring.MockInit()
	t.Setenv("NIGARAN_ADMIN_PASSWORD", "")

	_, err := Get(AdminPassword)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "cfg-pass", Lookup(AdminPassword, "cfg-pass"))
}

func TestUnknownName(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, Set("imap-password", "x"))
	_, err := Get("imap-password")
	assert.Error(t, err)
	assert.Equal(t, "NIGARAN_ADMIN_PASSWORD", EnvName(AdminPassword))
}
