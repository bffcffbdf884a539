package secret_manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSecretManager(t *testing.T) {
	t.Setenv("STUDIO_AI_API_KEY", "test-key")

	sm := EnvSecretManager{}
	secret, err := sm.GetSecret(AIAPIKeySecretName)
	require.NoError(t, err)
	assert.Equal(t, "test-key", secret)

	_, err = sm.GetSecret("MISSING_SECRET")
	assert.Error(t, err)

	assert.Error(t, sm.SetSecret("X", "y"))
	assert.Error(t, sm.DeleteSecret("X"))
}

func TestMockSecretManager(t *testing.T) {
	sm := &MockSecretManager{}

	secret, err := sm.GetSecret("anything")
	require.NoError(t, err)
	assert.Equal(t, "fake secret", secret)

	require.NoError(t, sm.SetSecret("KEY", "value"))
	secret, err = sm.GetSecret("KEY")
	require.NoError(t, err)
	assert.Equal(t, "value", secret)

	require.NoError(t, sm.DeleteSecret("KEY"))
	secret, err = sm.GetSecret("KEY")
	require.NoError(t, err)
	assert.Equal(t, "fake secret", secret)
}

func TestGetSecretManager(t *testing.T) {
	assert.Equal(t, EnvSecretManagerType, GetSecretManager(EnvSecretManagerType).GetType())
	assert.Equal(t, MockSecretManagerType, GetSecretManager(MockSecretManagerType).GetType())
	assert.Equal(t, KeyringSecretManagerType, GetSecretManager(KeyringSecretManagerType).GetType())
	assert.Equal(t, EnvSecretManagerType, GetSecretManager("unknown").GetType())
}
