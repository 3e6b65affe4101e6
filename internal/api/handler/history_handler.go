package handler

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/pkg/action"
	"XhsStudio/internal/pkg/response"
	"XhsStudio/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

const historyBase = "/app/history"

type HistoryHandler struct {
	historySvc service.HistoryService
}

func NewHistoryHandler(historySvc service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historySvc: historySvc}
}

func (s *HistoryHandler) History(c *gin.Context) {
	var q dto.SelectDTO
	_ = c.ShouldBindQuery(&q)
	s.page(c, q.Select, "")
}

func (s *HistoryHandler) More(c *gin.Context) {
	s.act(c, s.historySvc.More(c.Request.Context(), workspace(c)))
}

func (s *HistoryHandler) Refresh(c *gin.Context) {
	s.act(c, s.historySvc.Refresh(c.Request.Context(), workspace(c)))
}

func (s *HistoryHandler) Delete(c *gin.Context) {
	s.act(c, s.historySvc.Delete(c.Request.Context(), workspace(c), c.Param("id")))
}

// GenerateStory 启动生成后跳转到图文故事页查看进度
func (s *HistoryHandler) GenerateStory(c *gin.Context) {
	id := c.Param("id")
	if err := s.historySvc.GenerateStory(c.Request.Context(), workspace(c), id); err != nil {
		msg, ok := errorText(c, err)
		if ok {
			s.page(c, id, msg)
		}
		return
	}
	c.Redirect(http.StatusSeeOther, storiesBase)
}

// List GET /api/history
func (s *HistoryHandler) List(c *gin.Context) {
	listJSON(c, workspace(c).Client.Rewrites())
}

func (s *HistoryHandler) act(c *gin.Context, err error) {
	if err != nil {
		msg, ok := errorText(c, err)
		if ok {
			s.page(c, "", msg)
		}
		return
	}
	redirectSelect(c, historyBase, workspace(c).History.Snapshot().SelectedID)
}

func (s *HistoryHandler) page(c *gin.Context, selectID, errMsg string) {
	ws := workspace(c)
	view, err := s.historySvc.List(c.Request.Context(), ws, selectID)
	if err != nil && response.HandleUnauthorized(c, err) {
		return
	}
	render(c, "history.html", "history", gin.H{
		"Title":     "二创历史",
		"View":      view,
		"Base":      historyBase,
		"Error":     errMsg,
		"StoryBusy": ws.Story.Snapshot().Phase == action.PhaseInFlight,
	})
}
