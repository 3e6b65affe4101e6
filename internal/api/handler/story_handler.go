package handler

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/pkg/action"
	"XhsStudio/internal/pkg/response"
	"XhsStudio/internal/service"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

const storiesBase = "/app/stories"

const storyCSP = "sandbox allow-scripts"

type StoryHandler struct {
	storySvc service.StoryService
}

func NewStoryHandler(storySvc service.StoryService) *StoryHandler {
	return &StoryHandler{storySvc: storySvc}
}

func (s *StoryHandler) Stories(c *gin.Context) {
	var q dto.SelectDTO
	_ = c.ShouldBindQuery(&q)
	s.page(c, q.Select, "")
}

func (s *StoryHandler) More(c *gin.Context) {
	s.act(c, s.storySvc.More(c.Request.Context(), workspace(c)))
}

func (s *StoryHandler) Refresh(c *gin.Context) {
	s.act(c, s.storySvc.Refresh(c.Request.Context(), workspace(c)))
}

func (s *StoryHandler) Delete(c *gin.Context) {
	s.act(c, s.storySvc.Delete(c.Request.Context(), workspace(c), c.Param("id")))
}

// Current GET /app/stories/current，返回故事弹窗状态
func (s *StoryHandler) Current(c *gin.Context) {
	ws := workspace(c)
	response.Success(c, storyStatus(s.storySvc.Current(ws)))
}

func (s *StoryHandler) CurrentPreview(c *gin.Context) {
	doc, err := s.storySvc.CurrentDocument(workspace(c))
	s.serve(c, doc, err, false)
}

func (s *StoryHandler) CurrentDownload(c *gin.Context) {
	doc, err := s.storySvc.CurrentDocument(workspace(c))
	s.serve(c, doc, err, true)
}

func (s *StoryHandler) Preview(c *gin.Context) {
	doc, err := s.storySvc.Document(workspace(c), c.Param("id"))
	s.serve(c, doc, err, false)
}

func (s *StoryHandler) Download(c *gin.Context) {
	doc, err := s.storySvc.Document(workspace(c), c.Param("id"))
	s.serve(c, doc, err, true)
}

func (s *StoryHandler) Close(c *gin.Context) {
	s.storySvc.Close(workspace(c))
	c.Redirect(http.StatusSeeOther, storiesBase)
}

// List GET /api/stories
func (s *StoryHandler) List(c *gin.Context) {
	listJSON(c, workspace(c).Client.Stories())
}

func (s *StoryHandler) serve(c *gin.Context, doc *service.StoryDocument, err error, attachment bool) {
	if err != nil {
		response.Error(c, err)
		return
	}
	// 故事 HTML 由模型生成，放在独立的不透明源中执行
	c.Header("Content-Security-Policy", storyCSP)
	if attachment {
		c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(doc.FileName))
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc.HTML))
}

func (s *StoryHandler) act(c *gin.Context, err error) {
	if err != nil {
		msg, ok := errorText(c, err)
		if ok {
			s.page(c, "", msg)
		}
		return
	}
	redirectSelect(c, storiesBase, workspace(c).Stories.Snapshot().SelectedID)
}

func (s *StoryHandler) page(c *gin.Context, selectID, errMsg string) {
	ws := workspace(c)
	view, err := s.storySvc.List(c.Request.Context(), ws, selectID)
	if err != nil && response.HandleUnauthorized(c, err) {
		return
	}
	data := gin.H{
		"Title":        "图文故事",
		"View":         view,
		"Base":         storiesBase,
		"Error":        errMsg,
		"CurrentTitle": ws.StoryTitle(),
	}
	st := s.storySvc.Current(ws)
	if st.Phase != action.PhaseIdle {
		if st.Err != nil && response.HandleUnauthorized(c, st.Err) {
			return
		}
		data["Current"] = &st
	}
	render(c, "stories.html", "stories", data)
}
