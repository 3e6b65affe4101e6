package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ParseUnverified 不校验签名解析后端 token，只用于读取过期时间，
// 密钥只在后端，token 是否有效仍由后端判断
func ParseUnverified(tokenString string) (*BackendClaims, error) {
	claims := &BackendClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("token 解析失败: %w", err)
	}
	return claims, nil
}

// ExpiresAt 返回 token 的过期时间，非 JWT 或无 exp 时 ok 为 false
func ExpiresAt(tokenString string) (time.Time, bool) {
	if strings.Count(tokenString, ".") != 2 {
		return time.Time{}, false
	}
	claims, err := ParseUnverified(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// SessionTTL 会话有效期取配置值与 token 剩余有效期中较小者
func SessionTTL(tokenString string, ttl time.Duration, now time.Time) (time.Duration, error) {
	exp, ok := ExpiresAt(tokenString)
	if !ok {
		return ttl, nil
	}
	left := exp.Sub(now)
	if left <= 0 {
		return 0, errors.New("token 已过期")
	}
	return min(ttl, left), nil
}
