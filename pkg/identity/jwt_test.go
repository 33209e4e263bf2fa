package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/identity"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testIssuer = "inventario-ledger-test"
)

func TestGenerateYParse_RoundTrip(t *testing.T) {
	tok, err := identity.Generate(testSecret, testUserID, testIssuer, 60)
	require.NoError(t, err, "debe generarse un token JWT válido")

	userID, err := identity.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
}

func TestParse_FirmaIncorrectaFalla(t *testing.T) {
	tok, err := identity.Generate(testSecret, testUserID, testIssuer, 60)
	require.NoError(t, err)

	_, err = identity.Parse("otro-secreto", tok)
	assert.Error(t, err, "un secreto distinto debe invalidar el token")
}

func TestParse_TokenExpiradoFalla(t *testing.T) {
	tok, err := identity.Generate(testSecret, testUserID, testIssuer, -1)
	require.NoError(t, err)

	_, err = identity.Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestJWTResolver_ResuelveElActorDesdeElContexto(t *testing.T) {
	tok, err := identity.Generate(testSecret, testUserID, testIssuer, 60)
	require.NoError(t, err)

	resolver := identity.NewJWTResolver(testSecret)
	ctx := identity.WithToken(context.Background(), tok)

	actor, ok := resolver.Resolve(ctx)
	require.True(t, ok)
	assert.Equal(t, testUserID, actor)
}

func TestJWTResolver_SinTokenNoResuelve(t *testing.T) {
	resolver := identity.NewJWTResolver(testSecret)

	_, ok := resolver.Resolve(context.Background())
	assert.False(t, ok)
}

func TestContextResolver_LeeElActorAdjunto(t *testing.T) {
	resolver := identity.ContextResolver{}

	_, ok := resolver.Resolve(context.Background())
	assert.False(t, ok, "sin actor en el contexto no debe resolver")

	actor, ok := resolver.Resolve(identity.WithActor(context.Background(), testUserID))
	require.True(t, ok)
	assert.Equal(t, testUserID, actor)
}
