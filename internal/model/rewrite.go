package model

import "strconv"

// RewriteRecord 二创历史
type RewriteRecord struct {
	ID               int64  `json:"id"`
	NoteID           string `json:"note_id"`
	NoteTitle        string `json:"note_title"`
	OriginalURL      string `json:"original_url,omitempty"`
	OriginalTitle    string `json:"original_title"`
	OriginalContent  string `json:"original_content"`
	RecreatedTitle   string `json:"recreated_title"`
	RecreatedContent string `json:"recreated_content"`
	CreatedAt        string `json:"created_at"`
}

func (r RewriteRecord) Key() string {
	return strconv.FormatInt(r.ID, 10)
}

// Rewrite 单次 AI 二创的结果
type Rewrite struct {
	NewTitle   string `json:"new_title"`
	NewContent string `json:"new_content"`
}
