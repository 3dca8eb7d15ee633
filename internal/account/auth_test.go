package account

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	password := "secret"
	hash, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestCheckPasswordHash(t *testing.T) {
	password := "secret"
	hash, _ := HashPassword(password)

	assert.True(t, CheckPasswordHash(password, hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	token, err := GenerateJWT(uuid.New(), RoleCustomer, "test@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestGenerateJWT_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := GenerateJWT(uuid.New(), RoleCustomer, "test@example.com")
	assert.Error(t, err)
	assert.Equal(t, "JWT_SECRET is not set", err.Error())
}

func TestParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	id := uuid.New()
	tokenStr, _ := GenerateJWT(id, RoleProvider, "mess@example.com")

	t.Run("Success", func(t *testing.T) {
		claims, err := ParseJWT(tokenStr)
		assert.NoError(t, err)
		assert.NotNil(t, claims)
		assert.Equal(t, id.String(), claims.AccountID)
		assert.Equal(t, "mess@example.com", claims.Email)
		assert.Equal(t, string(RoleProvider), claims.Role)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		_, err := ParseJWT("not.a.token")
		assert.Error(t, err)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "othersecret")
		_, err := ParseJWT(tokenStr)
		assert.Error(t, err)
	})
}
