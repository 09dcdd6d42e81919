package secrets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/solarepc/epc-api/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapStore map[string]string

func (m mapStore) GetSecret(_ context.Context, name string) (string, error) {
	if v, ok := m[name]; ok {
		return v, nil
	}
	return "", errors.New("secret not found")
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, "development"))
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, ""))
	assert.Equal(t, secrets.SourceVault, secrets.ResolveSource(secrets.SourceAuto, "production"))
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceEnvironment, "production"))
}

func TestProvider_EnvironmentSource(t *testing.T) {
	t.Setenv("EPC_TEST_SECRET", "from-env")
	p, err := secrets.NewProvider(&secrets.ProviderConfig{Source: secrets.SourceEnvironment}, zap.NewNop())
	require.NoError(t, err)

	v, err := p.GetSecret(context.Background(), "EPC_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)

	_, err = p.GetSecret(context.Background(), "EPC_TEST_SECRET_MISSING")
	assert.Error(t, err)
	assert.False(t, p.IsVaultEnabled())
}

func TestProvider_VaultRequiresName(t *testing.T) {
	_, err := secrets.NewProvider(&secrets.ProviderConfig{Source: secrets.SourceVault}, zap.NewNop())
	assert.Error(t, err)
}

func TestProvider_GetSecretOrEnvPrefersEnvironment(t *testing.T) {
	p := secrets.NewProviderWithStore(secrets.SourceVault, mapStore{"jwt-secret": "vault"}, zap.NewNop())

	v, err := p.GetSecretOrEnv(context.Background(), "jwt-secret", "EPC_TEST_JWT")
	require.NoError(t, err)
	assert.Equal(t, "vault", v)

	t.Setenv("EPC_TEST_JWT", "override")
	v, err = p.GetSecretOrEnv(context.Background(), "jwt-secret", "EPC_TEST_JWT")
	require.NoError(t, err)
	assert.Equal(t, "override", v)
	assert.True(t, p.IsVaultEnabled())
}
