package service

import (
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/action"
	"XhsStudio/internal/pkg/collection"
	"XhsStudio/internal/pkg/story"
	"context"
	"strconv"
)

// StoryDocument 可下载的独立 HTML
type StoryDocument struct {
	FileName string
	HTML     string
}

type StoryService interface {
	List(ctx context.Context, ws *Workspace, selectID string) (collection.View[model.VisualStory], error)
	More(ctx context.Context, ws *Workspace) error
	Refresh(ctx context.Context, ws *Workspace) error
	Delete(ctx context.Context, ws *Workspace, id string) error
	Current(ws *Workspace) action.Status[*model.VisualStory]
	CurrentDocument(ws *Workspace) (*StoryDocument, error)
	Document(ws *Workspace, id string) (*StoryDocument, error)
	Close(ws *Workspace)
}

type StoryServiceImpl struct{}

func NewStoryService() StoryService {
	return &StoryServiceImpl{}
}

func (s *StoryServiceImpl) List(ctx context.Context, ws *Workspace, selectID string) (collection.View[model.VisualStory], error) {
	return listView(ctx, ws.Stories, selectID)
}

func (s *StoryServiceImpl) More(ctx context.Context, ws *Workspace) error {
	return loadMore(ctx, ws.Stories)
}

func (s *StoryServiceImpl) Refresh(ctx context.Context, ws *Workspace) error {
	return ws.Stories.Refresh(ctx)
}

func (s *StoryServiceImpl) Delete(ctx context.Context, ws *Workspace, id string) error {
	return remove(ctx, ws.Stories, id)
}

func (s *StoryServiceImpl) Current(ws *Workspace) action.Status[*model.VisualStory] {
	return ws.Story.Snapshot()
}

// CurrentDocument 故事弹窗中已生成的结果
func (s *StoryServiceImpl) CurrentDocument(ws *Workspace) (*StoryDocument, error) {
	st := ws.Story.Snapshot()
	if !st.OK() || st.Result == nil {
		return nil, ErrNoCurrentStory
	}
	return document(st.Result, ws.StoryTitle())
}

// Document 历史列表中的故事
func (s *StoryServiceImpl) Document(ws *Workspace, id string) (*StoryDocument, error) {
	vs, ok := ws.Stories.Get(id)
	if !ok {
		return nil, ErrStoryNotFound
	}
	return document(&vs, "")
}

func (s *StoryServiceImpl) Close(ws *Workspace) {
	ws.Story.Close()
}

func document(vs *model.VisualStory, fallbackTitle string) (*StoryDocument, error) {
	title := vs.Title
	if title == "" {
		title = fallbackTitle
	}
	if title == "" && vs.ID != 0 {
		title = strconv.FormatInt(vs.ID, 10)
	}
	html := vs.HTML
	if html == "" {
		var err error
		if html, err = story.Render(vs); err != nil {
			return nil, err
		}
	}
	return &StoryDocument{FileName: story.FileName(title), HTML: html}, nil
}
