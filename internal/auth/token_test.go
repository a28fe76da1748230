package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingoprep/lingoprep-be/internal/models"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewTokenManager("test-secret", "lingoprep-test", time.Hour)
	user := models.User{ID: 42, Username: "mei", Email: "mei@example.com"}

	token, err := m.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "mei", claims.Username)
	assert.Equal(t, "lingoprep-test", claims.Issuer)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParse_WrongSecretFails(t *testing.T) {
	issuer := NewTokenManager("secret-a", "lingoprep-test", time.Hour)
	verifier := NewTokenManager("secret-b", "lingoprep-test", time.Hour)

	token, err := issuer.Generate(models.User{ID: 1})
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestParse_ExpiredTokenFails(t *testing.T) {
	m := NewTokenManager("test-secret", "lingoprep-test", -time.Minute)

	token, err := m.Generate(models.User{ID: 1})
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}
