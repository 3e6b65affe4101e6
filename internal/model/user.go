package model

import (
	"net/http"
	"time"
)

// User 后端返回的用户身份
type User struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// DisplayName 优先展示昵称
func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// Credential 后端凭据：Cookie 为权威凭据，Token 仅在后端返回时携带
type Credential struct {
	Token   string         `json:"token,omitempty"`
	Cookies []*http.Cookie `json:"cookies,omitempty"`
}

func (c Credential) IsZero() bool {
	return c.Token == "" && len(c.Cookies) == 0
}

// Session 一个浏览器会话对应的登录态
type Session struct {
	ID         string     `json:"id"`
	User       User       `json:"user"`
	Credential Credential `json:"credential"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

// AuthStatus GET /auth/status 的结果
type AuthStatus struct {
	LoggedIn bool  `json:"logged_in"`
	User     *User `json:"user,omitempty"`
}
