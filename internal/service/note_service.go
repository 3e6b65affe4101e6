package service

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/collection"
	"context"
	log "log/slog"
	"strings"
)

type NoteService interface {
	List(ctx context.Context, ws *Workspace, selectID string) (collection.View[model.Post], error)
	More(ctx context.Context, ws *Workspace) error
	Refresh(ctx context.Context, ws *Workspace) error
	Delete(ctx context.Context, ws *Workspace, id string) error
	Collect(ctx context.Context, ws *Workspace, req *dto.CollectDTO) (*model.CollectResult, error)
	Recreate(ctx context.Context, ws *Workspace, id string) (*RewriteOutcome, error)
}

type NoteServiceImpl struct{}

func NewNoteService() NoteService {
	return &NoteServiceImpl{}
}

func (s *NoteServiceImpl) List(ctx context.Context, ws *Workspace, selectID string) (collection.View[model.Post], error) {
	return listView(ctx, ws.Notes, selectID)
}

func (s *NoteServiceImpl) More(ctx context.Context, ws *Workspace) error {
	return loadMore(ctx, ws.Notes)
}

func (s *NoteServiceImpl) Refresh(ctx context.Context, ws *Workspace) error {
	return ws.Notes.Refresh(ctx)
}

func (s *NoteServiceImpl) Delete(ctx context.Context, ws *Workspace, id string) error {
	return remove(ctx, ws.Notes, id)
}

// Collect 提交链接采集，新笔记插入列表头部
func (s *NoteServiceImpl) Collect(ctx context.Context, ws *Workspace, req *dto.CollectDTO) (*model.CollectResult, error) {
	url := strings.TrimSpace(req.URL)
	res, err := ws.Collect.Run(ctx, func(ctx context.Context) (*model.CollectResult, error) {
		return ws.Client.CollectPost(ctx, url, strings.TrimSpace(req.Cookies))
	})
	if err != nil {
		return nil, err
	}
	if res.SavedToDB && res.Post.Key() != "" {
		ws.Notes.Prepend(res.Post)
	} else {
		ws.Notes.Invalidate()
	}
	log.InfoContext(ctx, "note collected", "note_id", res.Post.ID, "saved", res.SavedToDB)
	return res, nil
}

// Recreate 对已采集笔记做 AI 二创，成功后二创历史需要刷新
func (s *NoteServiceImpl) Recreate(ctx context.Context, ws *Workspace, id string) (*RewriteOutcome, error) {
	note, ok := ws.Notes.Get(id)
	if !ok {
		return nil, ErrNoteNotFound
	}
	if strings.TrimSpace(note.Title) == "" && strings.TrimSpace(note.Content) == "" {
		return nil, ErrEmptyNote
	}
	out, err := ws.Rewrite.Run(ctx, func(ctx context.Context) (*RewriteOutcome, error) {
		rw, err := ws.Client.Recreate(ctx, note.Title, note.Content, note.ID)
		if err != nil {
			return nil, err
		}
		return &RewriteOutcome{
			NoteID:          note.ID,
			OriginalTitle:   note.Title,
			OriginalContent: note.Content,
			Rewrite:         rw,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	ws.History.Invalidate()
	return out, nil
}
