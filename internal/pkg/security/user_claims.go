package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// BackendClaims 后端签发的 token 中可以读取的字段
type BackendClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
