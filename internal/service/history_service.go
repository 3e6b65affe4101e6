package service

import (
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/collection"
	"XhsStudio/internal/pkg/remote"
	"XhsStudio/internal/pkg/story"
	"context"
	log "log/slog"
)

type HistoryService interface {
	List(ctx context.Context, ws *Workspace, selectID string) (collection.View[model.RewriteRecord], error)
	More(ctx context.Context, ws *Workspace) error
	Refresh(ctx context.Context, ws *Workspace) error
	Delete(ctx context.Context, ws *Workspace, id string) error
	GenerateStory(ctx context.Context, ws *Workspace, id string) error
}

type HistoryServiceImpl struct {
	storyModel string
}

func NewHistoryService(storyModel string) HistoryService {
	return &HistoryServiceImpl{storyModel: storyModel}
}

func (s *HistoryServiceImpl) List(ctx context.Context, ws *Workspace, selectID string) (collection.View[model.RewriteRecord], error) {
	return listView(ctx, ws.History, selectID)
}

func (s *HistoryServiceImpl) More(ctx context.Context, ws *Workspace) error {
	return loadMore(ctx, ws.History)
}

func (s *HistoryServiceImpl) Refresh(ctx context.Context, ws *Workspace) error {
	return ws.History.Refresh(ctx)
}

func (s *HistoryServiceImpl) Delete(ctx context.Context, ws *Workspace, id string) error {
	return remove(ctx, ws.History, id)
}

// GenerateStory 异步生成图文故事，进度通过故事弹窗查询
func (s *HistoryServiceImpl) GenerateStory(ctx context.Context, ws *Workspace, id string) error {
	rec, ok := ws.History.Get(id)
	if !ok {
		return ErrHistoryNotFound
	}
	title := rec.RecreatedTitle
	if title == "" {
		title = rec.OriginalTitle
	}
	content := rec.RecreatedContent
	if content == "" {
		content = rec.OriginalContent
	}
	req := remote.StoryRequest{
		HistoryID: rec.ID,
		Title:     title,
		Content:   content,
		Model:     s.storyModel,
	}

	// 生成耗时较长，不随触发请求结束而取消
	runCtx := context.WithoutCancel(ctx)
	err := ws.Story.Start(runCtx, func(ctx context.Context) (*model.VisualStory, error) {
		vs, err := ws.Client.GenerateStory(ctx, req)
		if err != nil {
			log.WarnContext(ctx, "visual story generation failed", "history_id", rec.ID, "err", err)
			return nil, err
		}
		if vs.HTML == "" && len(vs.ContentCards) == 0 {
			return nil, ErrInvalidStory
		}
		if len(vs.ContentCards) > 0 && !story.CardCountValid(vs) {
			log.WarnContext(ctx, "unexpected content card count", "history_id", rec.ID, "cards", len(vs.ContentCards))
		}
		if vs.ID != 0 {
			ws.Stories.Prepend(*vs)
		} else {
			ws.Stories.Invalidate()
		}
		return vs, nil
	})
	if err != nil {
		return err
	}
	ws.setStoryTitle(title)
	return nil
}
