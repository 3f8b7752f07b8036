package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testgram/internal/config"
)

type memoryBlacklist struct {
	revoked map[string]bool
	err     error
}

func (m *memoryBlacklist) Add(_ context.Context, jti string, _ time.Time) error {
	m.revoked[jti] = true
	return nil
}

func (m *memoryBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], m.err
}

var testAuthCfg = config.AuthConfig{JWTSecretKey: "test-secret", JWTIssuer: "testgram-auth"}

func TestValidateTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "ann", time.Hour, testAuthCfg)
	require.NoError(t, err)

	claims, err := ValidateToken(context.Background(), token, testAuthCfg, &memoryBlacklist{revoked: map[string]bool{}})
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ann", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	ctx := context.Background()

	expired, err := GenerateToken(7, "ann", -time.Minute, testAuthCfg)
	require.NoError(t, err)
	_, err = ValidateToken(ctx, expired, testAuthCfg, nil)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	wrongKey, err := GenerateToken(7, "ann", time.Hour, config.AuthConfig{JWTSecretKey: "other", JWTIssuer: "testgram-auth"})
	require.NoError(t, err)
	_, err = ValidateToken(ctx, wrongKey, testAuthCfg, nil)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	wrongIssuer, err := GenerateToken(7, "ann", time.Hour, config.AuthConfig{JWTSecretKey: "test-secret", JWTIssuer: "elsewhere"})
	require.NoError(t, err)
	_, err = ValidateToken(ctx, wrongIssuer, testAuthCfg, nil)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ValidateToken(ctx, "not-a-token", testAuthCfg, nil)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenHonoursBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := &memoryBlacklist{revoked: map[string]bool{}}

	token, err := GenerateToken(7, "ann", time.Hour, testAuthCfg)
	require.NoError(t, err)
	claims, err := ValidateToken(ctx, token, testAuthCfg, bl)
	require.NoError(t, err)

	require.NoError(t, bl.Add(ctx, claims.ID, claims.ExpiresAt.Time))
	_, err = ValidateToken(ctx, token, testAuthCfg, bl)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	bl.err = errors.New("redis down")
	_, err = ValidateToken(ctx, token, testAuthCfg, bl)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenRevoked)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))

	assert.ErrorIs(t, CheckPasswordPolicy("short"), ErrPasswordTooShort)
	assert.NoError(t, CheckPasswordPolicy("long enough"))
}
