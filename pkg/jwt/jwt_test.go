package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateYParse(t *testing.T) {
	token, err := Generate("secreto", "actor-7", "inventory-core", 10)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	actorID, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "actor-7", actorID)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	token, err := Generate("secreto", "actor-7", "inventory-core", 10)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := Generate("secreto", "actor-7", "inventory-core", -1)
	require.NoError(t, err)

	_, err = Parse("secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenBasura(t *testing.T) {
	_, err := Parse("secreto", "no.es.jwt")
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "actor-7", "inventory-core", 10)
	assert.Error(t, err)

	_, err = Parse("", "lo-que-sea")
	assert.Error(t, err)
}
