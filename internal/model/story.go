package model

import "strconv"

// Layout 卡片布局
type Layout string

const (
	LayoutImageTextOverlay   Layout = "a"
	LayoutImageTopTextBottom Layout = "b"
	LayoutTextTopImageBottom Layout = "c"
)

func (l Layout) Valid() bool {
	switch l {
	case LayoutImageTextOverlay, LayoutImageTopTextBottom, LayoutTextTopImageBottom:
		return true
	}
	return false
}

const (
	MinContentCards = 3
	MaxContentCards = 9
)

type Card struct {
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Layout   Layout `json:"layout"`
	ImageURL string `json:"image_url"`
}

// VisualStory 图文故事：1 张封面 + 3~9 张内容卡片 + 独立 HTML
type VisualStory struct {
	ID           int64  `json:"id,omitempty"`
	HistoryID    int64  `json:"history_id,omitempty"`
	Title        string `json:"title,omitempty"`
	Content      string `json:"content,omitempty"`
	CoverCard    Card   `json:"cover_card"`
	ContentCards []Card `json:"content_cards"`
	HTML         string `json:"html"`
	Model        string `json:"model_used,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

func (v VisualStory) Key() string {
	return strconv.FormatInt(v.ID, 10)
}
