package dto

// StoryStatusDTO 图文故事弹窗状态，推送给进度 websocket
type StoryStatusDTO struct {
	Phase    string `json:"phase"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
	Done     bool   `json:"done"`
}
