package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/campusfound/lostfound-backend/internal/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Email: "jdoe@illinois.edu", Role: models.RoleAdmin}

	token, exp, err := m.Generate(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := m.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one", time.Hour)
	verifier := NewTokenManager("secret-two", time.Hour)
	user := &models.User{ID: uuid.New(), Email: "jdoe@illinois.edu", Role: models.RoleUser}

	token, _, err := issuer.Generate(user)
	assert.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)
	user := &models.User{ID: uuid.New(), Email: "jdoe@illinois.edu", Role: models.RoleUser}

	token, _, err := m.Generate(user)
	assert.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsForeignSigningMethod(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	// An unsigned token must never pass, whatever its claims say.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	_, err := m.Parse("not-a-token")
	assert.Error(t, err)
}
