package session

import (
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/consts"
	rdbutil "XhsStudio/internal/pkg/redis"
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore 以 JSON 形式保存会话，过期交给 Redis TTL
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
	now func() time.Time
}

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		ttl: ttl,
		now: time.Now,
	}
}

func (s *RedisStore) Create(ctx context.Context, user model.User, cred model.Credential) (*model.Session, error) {
	sess, err := newSession(user, cred, s.ttl, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.Session, error) {
	raw, err := rdbutil.GetBytes(ctx, s.rdb, consts.SessionKey+id)
	if err != nil {
		return nil, errors.Wrap(err, "读取会话失败")
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// 无法解析的会话视为不存在
		_ = rdbutil.Delete(ctx, s.rdb, consts.SessionKey+id)
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *model.Session) error {
	return s.put(ctx, sess)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return rdbutil.Delete(ctx, s.rdb, consts.SessionKey+id)
}

func (s *RedisStore) put(ctx context.Context, sess *model.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return ErrNotFound
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "序列化会话失败")
	}
	if err := rdbutil.SetWithExpiration(ctx, s.rdb, consts.SessionKey+sess.ID, raw, ttl); err != nil {
		return errors.Wrap(err, "写入会话失败")
	}
	return nil
}

// Count 当前会话数，用于清理任务的日志
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	keys, err := rdbutil.ScanKeys(ctx, s.rdb, consts.SessionKey)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
