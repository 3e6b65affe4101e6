package service

import (
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/action"
	"XhsStudio/internal/pkg/collection"
	"XhsStudio/internal/pkg/remote"
	log "log/slog"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// RewriteOutcome 二创弹窗的结果
type RewriteOutcome struct {
	NoteID          string
	OriginalTitle   string
	OriginalContent string
	Rewrite         *model.Rewrite
}

// Workspace 一个浏览器会话的界面状态：三个列表与三个弹窗
type Workspace struct {
	SessionID string
	Client    *remote.Client

	Notes   *collection.Controller[model.Post]
	History *collection.Controller[model.RewriteRecord]
	Stories *collection.Controller[model.VisualStory]

	Collect *action.Dialog[*model.CollectResult]
	Rewrite *action.Dialog[*RewriteOutcome]
	Story   *action.Dialog[*model.VisualStory]

	mu         sync.Mutex
	user       model.User
	storyTitle string
}

// User 会话当前用户
func (w *Workspace) User() model.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.user
}

func (w *Workspace) setUser(u model.User) {
	w.mu.Lock()
	w.user = u
	w.mu.Unlock()
}

// StoryTitle 当前故事弹窗对应的二创标题
func (w *Workspace) StoryTitle() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.storyTitle
}

func (w *Workspace) setStoryTitle(title string) {
	w.mu.Lock()
	w.storyTitle = title
	w.mu.Unlock()
}

// LastActive 所有列表和弹窗中最近的一次操作时间
func (w *Workspace) LastActive() time.Time {
	last := w.Notes.LastTouched()
	for _, t := range []time.Time{
		w.History.LastTouched(),
		w.Stories.LastTouched(),
		w.Collect.LastTouched(),
		w.Rewrite.LastTouched(),
		w.Story.LastTouched(),
	} {
		if t.After(last) {
			last = t
		}
	}
	return last
}

// InFlight 是否有未完成的弹窗操作
func (w *Workspace) InFlight() bool {
	return w.Collect.Snapshot().Phase == action.PhaseInFlight ||
		w.Rewrite.Snapshot().Phase == action.PhaseInFlight ||
		w.Story.Snapshot().Phase == action.PhaseInFlight
}

// Close 丢弃所有在途请求
func (w *Workspace) Close() {
	w.Notes.Close()
	w.History.Close()
	w.Stories.Close()
	w.Collect.Close()
	w.Rewrite.Close()
	w.Story.Close()
}

// WorkspaceOptions 构建工作区所需的共享依赖
type WorkspaceOptions struct {
	HTTP         *resty.Client
	Routes       remote.Routes
	PageSize     int
	ProgressTick time.Duration
	ProgressCap  float64
}

type WorkspaceRegistry interface {
	// Get 取得会话对应的工作区，不存在时创建
	Get(sess *model.Session) *Workspace
	Lookup(sessionID string) (*Workspace, bool)
	Drop(sessionID string)
	// Sweep 清理空闲超过 idle 的工作区，返回清理数量
	Sweep(idle time.Duration) int
	Len() int
}

type WorkspaceRegistryImpl struct {
	opts WorkspaceOptions
	now  func() time.Time

	mu     sync.Mutex
	spaces map[string]*Workspace
}

func NewWorkspaceRegistry(opts WorkspaceOptions) WorkspaceRegistry {
	return &WorkspaceRegistryImpl{
		opts:   opts,
		now:    time.Now,
		spaces: make(map[string]*Workspace),
	}
}

func (s *WorkspaceRegistryImpl) Get(sess *model.Session) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.spaces[sess.ID]; ok {
		ws.setUser(sess.User)
		return ws
	}
	ws := s.build(sess)
	s.spaces[sess.ID] = ws
	return ws
}

func (s *WorkspaceRegistryImpl) Lookup(sessionID string) (*Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.spaces[sessionID]
	return ws, ok
}

func (s *WorkspaceRegistryImpl) Drop(sessionID string) {
	s.mu.Lock()
	ws, ok := s.spaces[sessionID]
	delete(s.spaces, sessionID)
	s.mu.Unlock()
	if ok {
		ws.Close()
	}
}

func (s *WorkspaceRegistryImpl) Sweep(idle time.Duration) int {
	deadline := s.now().Add(-idle)
	var stale []*Workspace

	s.mu.Lock()
	for id, ws := range s.spaces {
		if ws.InFlight() || ws.LastActive().After(deadline) {
			continue
		}
		delete(s.spaces, id)
		stale = append(stale, ws)
	}
	s.mu.Unlock()

	for _, ws := range stale {
		ws.Close()
	}
	if len(stale) > 0 {
		log.Info("idle workspaces swept", "count", len(stale))
	}
	return len(stale)
}

func (s *WorkspaceRegistryImpl) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.spaces)
}

func (s *WorkspaceRegistryImpl) build(sess *model.Session) *Workspace {
	client := remote.NewClient(s.opts.HTTP, s.opts.Routes, sess.Credential)
	return &Workspace{
		SessionID: sess.ID,
		user:      sess.User,
		Client:    client,
		Notes:     collection.New[model.Post](client.Posts(), s.opts.PageSize),
		History:   collection.New[model.RewriteRecord](client.Rewrites(), s.opts.PageSize),
		Stories:   collection.New[model.VisualStory](client.Stories(), s.opts.PageSize),
		Collect:   action.New[*model.CollectResult](),
		Rewrite:   action.New[*RewriteOutcome](),
		Story: action.New[*model.VisualStory](
			action.WithProgress(action.NewProgress(s.opts.ProgressTick, s.opts.ProgressCap)),
		),
	}
}
