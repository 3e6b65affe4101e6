package service

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/remote"
	"XhsStudio/internal/pkg/session"
	"context"
	"errors"
	log "log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/jinzhu/copier"
)

type AuthService interface {
	Login(ctx context.Context, credential *dto.CredentialDTO) (*model.Session, error)
	Register(ctx context.Context, register *dto.RegisterDTO) error
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (*model.Session, error)
	Verify(ctx context.Context, sess *model.Session) (*model.Session, error)
	Drop(ctx context.Context, sessionID string)
}

type AuthServiceImpl struct {
	http     *resty.Client
	routes   remote.Routes
	store    session.Store
	registry WorkspaceRegistry
}

func NewAuthService(http *resty.Client, routes remote.Routes, store session.Store, registry WorkspaceRegistry) AuthService {
	return &AuthServiceImpl{
		http:     http,
		routes:   routes,
		store:    store,
		registry: registry,
	}
}

func (s *AuthServiceImpl) anonymous() *remote.Client {
	return remote.NewClient(s.http, s.routes, model.Credential{})
}

// Login 后端登录成功后创建服务端会话
func (s *AuthServiceImpl) Login(ctx context.Context, credential *dto.CredentialDTO) (*model.Session, error) {
	res, err := s.anonymous().Login(ctx, credential.Username, credential.Password)
	if err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			return nil, ErrLoginFailed
		}
		return nil, err
	}

	user := res.User
	if user == nil {
		// 部分后端登录响应不带用户信息
		status, err := remote.NewClient(s.http, s.routes, res.Credential).Status(ctx)
		if err != nil {
			return nil, err
		}
		user = status.User
	}
	if user == nil {
		user = &model.User{Username: credential.Username}
	}

	sess, err := s.store.Create(ctx, *user, res.Credential)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "user logged in", "username", user.Username)
	return sess, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, register *dto.RegisterDTO) error {
	var req remote.RegisterRequest
	if err := copier.Copy(&req, register); err != nil {
		return UnExpectedError
	}
	return s.anonymous().Register(ctx, req)
}

// Logout 后端登出失败不影响本地会话清理
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.store.Get(ctx, sessionID)
	if err == nil {
		client := remote.NewClient(s.http, s.routes, sess.Credential)
		if err := client.Logout(ctx); err != nil {
			log.WarnContext(ctx, "backend logout failed", "err", err)
		}
	}
	s.Drop(ctx, sessionID)
	return nil
}

func (s *AuthServiceImpl) Current(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, ErrNotLoggedIn
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	return sess, nil
}

// Verify 向后端确认登录态，后端不可达时保留会话
func (s *AuthServiceImpl) Verify(ctx context.Context, sess *model.Session) (*model.Session, error) {
	client := remote.NewClient(s.http, s.routes, sess.Credential)
	status, err := client.Status(ctx)
	if err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			s.Drop(ctx, sess.ID)
			return nil, ErrNotLoggedIn
		}
		log.WarnContext(ctx, "auth status check failed", "err", err)
		return sess, nil
	}
	if !status.LoggedIn {
		s.Drop(ctx, sess.ID)
		return nil, ErrNotLoggedIn
	}
	if status.User != nil && *status.User != sess.User {
		sess.User = *status.User
		if err := s.store.Save(ctx, sess); err != nil {
			log.WarnContext(ctx, "save session failed", "err", err)
		}
	}
	return sess, nil
}

// Drop 删除会话并释放工作区
func (s *AuthServiceImpl) Drop(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		log.WarnContext(ctx, "delete session failed", "err", err)
	}
	s.registry.Drop(sessionID)
}
