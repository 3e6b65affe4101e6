package handler

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/action"
	"XhsStudio/internal/pkg/collection"
	"XhsStudio/internal/pkg/response"
	"XhsStudio/internal/pkg/util"
	"XhsStudio/internal/service"
	"context"

	"github.com/gin-gonic/gin"
)

const notesBase = "/app/notes"

type NoteHandler struct {
	noteSvc service.NoteService
}

func NewNoteHandler(noteSvc service.NoteService) *NoteHandler {
	return &NoteHandler{noteSvc: noteSvc}
}

func (s *NoteHandler) CollectPage(c *gin.Context) {
	ws := workspace(c)
	st := ws.Collect.Snapshot()
	data := gin.H{
		"Title": "数据采集",
		"Busy":  st.Phase == action.PhaseInFlight,
	}
	if st.OK() {
		data["Result"] = st.Result
	}
	render(c, "collect.html", "collect", data)
}

func (s *NoteHandler) Collect(c *gin.Context) {
	ws := workspace(c)
	var req dto.CollectDTO
	_ = c.ShouldBind(&req)
	data := gin.H{"Title": "数据采集", "URL": req.URL}

	if err := util.ValidateDTO(&req); err != nil {
		data["Error"], _ = errorText(c, err)
		render(c, "collect.html", "collect", data)
		return
	}
	res, err := s.noteSvc.Collect(c.Request.Context(), ws, &req)
	if err != nil {
		msg, ok := errorText(c, err)
		if !ok {
			return
		}
		data["Error"] = msg
		render(c, "collect.html", "collect", data)
		return
	}
	data["Result"] = res
	data["Notice"] = "采集成功"
	render(c, "collect.html", "collect", data)
}

func (s *NoteHandler) Notes(c *gin.Context) {
	var q dto.SelectDTO
	_ = c.ShouldBindQuery(&q)
	s.page(c, q.Select, "")
}

func (s *NoteHandler) More(c *gin.Context) {
	s.act(c, s.noteSvc.More(c.Request.Context(), workspace(c)))
}

func (s *NoteHandler) Refresh(c *gin.Context) {
	s.act(c, s.noteSvc.Refresh(c.Request.Context(), workspace(c)))
}

func (s *NoteHandler) Delete(c *gin.Context) {
	s.act(c, s.noteSvc.Delete(c.Request.Context(), workspace(c), c.Param("id")))
}

func (s *NoteHandler) Recreate(c *gin.Context) {
	id := c.Param("id")
	_, err := s.noteSvc.Recreate(c.Request.Context(), workspace(c), id)
	if err != nil {
		msg, ok := errorText(c, err)
		if ok {
			s.page(c, id, msg)
		}
		return
	}
	redirectSelect(c, notesBase, id)
}

// List GET /api/notes，直接按 limit/offset 查询后端
func (s *NoteHandler) List(c *gin.Context) {
	listJSON(c, workspace(c).Client.Posts())
}

func (s *NoteHandler) act(c *gin.Context, err error) {
	if err != nil {
		msg, ok := errorText(c, err)
		if ok {
			s.page(c, "", msg)
		}
		return
	}
	ws := workspace(c)
	redirectSelect(c, notesBase, ws.Notes.Snapshot().SelectedID)
}

func (s *NoteHandler) page(c *gin.Context, selectID, errMsg string) {
	ws := workspace(c)
	view, err := s.noteSvc.List(c.Request.Context(), ws, selectID)
	if err != nil && response.HandleUnauthorized(c, err) {
		return
	}
	data := gin.H{
		"Title":       "笔记管理",
		"View":        view,
		"Base":        notesBase,
		"Error":       errMsg,
		"RewriteBusy": ws.Rewrite.Snapshot().Phase == action.PhaseInFlight,
	}
	if st := ws.Rewrite.Snapshot(); st.OK() {
		data["Rewrite"] = st.Result
	}
	render(c, "notes.html", "notes", data)
}

type pageSource[T any] interface {
	List(ctx context.Context, limit, offset int) (model.Page[T], error)
}

func listJSON[T any](c *gin.Context, src pageSource[T]) {
	q := dto.PageQueryDTO{Limit: collection.DefaultPageSize}
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&q); err != nil {
		response.Error(c, err)
		return
	}
	page, err := src.List(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := page.Items
	if items == nil {
		items = []T{}
	}
	response.Success(c, dto.ListDTO[T]{
		Items:   items,
		Total:   page.Total,
		HasMore: page.HasMore,
		State:   collection.StateLoaded.String(),
	})
}
