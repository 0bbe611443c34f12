package token

import (
	"testing"
	"time"

	"restaurant/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTIssuer(t *testing.T) {
	_, err := NewJWTIssuer("", time.Minute)
	assert.Error(t, err)

	iss, err := NewJWTIssuer("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, iss.accessTTL)
}

func TestIssue_Claims(t *testing.T) {
	iss, err := NewJWTIssuer("secret", 10*time.Minute)
	require.NoError(t, err)

	now := time.Now().Truncate(time.Second)
	signed, exp, err := iss.Issue("u-1", model.RoleAdmin, 4, now)
	require.NoError(t, err)
	assert.True(t, exp.Equal(now.Add(10*time.Minute)))

	tok, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	require.True(t, tok.Valid)
	assert.Equal(t, jwt.SigningMethodHS256, tok.Method)

	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "u-1", claims["sub"])
	assert.Equal(t, "ADMIN", claims["role"])
	assert.EqualValues(t, 4, claims["tv"])
	assert.EqualValues(t, now.Unix(), claims["iat"])
	assert.EqualValues(t, exp.Unix(), claims["exp"])

	//別の鍵では通らない
	_, err = jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) { return []byte("other"), nil })
	assert.Error(t, err)
}
