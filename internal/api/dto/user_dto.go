package dto

// SessionDTO 当前登录用户
type SessionDTO struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
}
