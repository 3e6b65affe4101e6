package session

import (
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/security"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("会话不存在或已过期")
	ErrTokenExpired = errors.New("登录凭据已过期")
)

// DefaultTTL 未配置时的会话有效期
const DefaultTTL = 24 * time.Hour

// Store 服务端会话存储，一个浏览器 cookie 对应一个会话
type Store interface {
	Create(ctx context.Context, user model.User, cred model.Credential) (*model.Session, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id string) error
}

// newSession 会话过期时间不晚于后端 token 的 exp
func newSession(user model.User, cred model.Credential, ttl time.Duration, now time.Time) (*model.Session, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	ttl, err := security.SessionTTL(cred.Token, ttl, now)
	if err != nil {
		return nil, ErrTokenExpired
	}
	return &model.Session{
		ID:         uuid.NewString(),
		User:       user,
		Credential: cred,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}, nil
}
