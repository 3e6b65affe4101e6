package handler

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/action"
	"XhsStudio/internal/pkg/response"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
	},
}

type WsHandler struct {
	interval time.Duration
}

func NewWsHandler(interval time.Duration) *WsHandler {
	if interval <= 0 {
		interval = action.DefaultProgressTick
	}
	return &WsHandler{interval: interval}
}

func storyStatus(st action.Status[*model.VisualStory]) dto.StoryStatusDTO {
	out := dto.StoryStatusDTO{
		Phase:    st.Phase.String(),
		Progress: st.Progress,
		Done:     st.Phase != action.PhaseInFlight,
	}
	if st.Err != nil {
		_, out.Error = response.Describe(st.Err)
	}
	return out
}

// StoryProgress 推送故事弹窗进度，操作结束或客户端断开时关闭
func (s *WsHandler) StoryProgress(c *gin.Context) {
	ws := workspace(c)
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.ErrorContext(ctx, "WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		defer close(stopChan)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		status := storyStatus(ws.Story.Snapshot())
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(status); err != nil {
			log.WarnContext(ctx, "WS 推送失败", "err", err)
			return
		}
		if status.Done {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
		select {
		case <-ticker.C:
		case <-stopChan:
			return
		}
	}
}
