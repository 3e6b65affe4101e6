package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTTL(t *testing.T) {
	now := time.Now()
	claims := BackendClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unknown"))
	require.NoError(t, err)

	parsed, err := ParseUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), parsed.UserID)

	ttl, err := SessionTTL(token, 24*time.Hour, now)
	require.NoError(t, err)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 1)

	ttl, err = SessionTTL(token, 10*time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, ttl)

	// 不是 JWT 的 token 按配置值
	ttl, err = SessionTTL("opaque", time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	_, err = SessionTTL(token, time.Hour, now.Add(2*time.Hour))
	assert.Error(t, err)
}
