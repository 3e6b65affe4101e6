package model

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Post 采集到的笔记
type Post struct {
	ID          string   `json:"note_id"`
	RowID       int64    `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Type        string   `json:"type"`
	Author      Author   `json:"author"`
	Stats       Stats    `json:"stats"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
	Videos      []string `json:"videos"`
	Location    string   `json:"location,omitempty"`
	PublishTime string   `json:"publish_time,omitempty"`
	OriginalURL string   `json:"original_url,omitempty"`
	CollectedAt string   `json:"created_at"`
}

func (p Post) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return strconv.FormatInt(p.RowID, 10)
}

// IsVideo 视频笔记
func (p Post) IsVideo() bool {
	return p.Type == "video" || len(p.Videos) > 0
}

type Author struct {
	Nickname string `json:"nickname"`
	UserID   string `json:"user_id"`
	Avatar   string `json:"avatar"`
}

type Stats struct {
	Likes    Count `json:"likes"`
	Collects Count `json:"collects"`
	Comments Count `json:"comments"`
	Shares   Count `json:"shares"`
}

// Count 互动数，后端可能返回数字或字符串
type Count int64

func (c *Count) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*c = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Count(ParseLeadingInt(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = Count(f)
	return nil
}

// ParseLeadingInt 解析字符串开头的整数部分，无法解析时返回 0
func ParseLeadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		ch := s[end]
		if (ch >= '0' && ch <= '9') || (end == 0 && (ch == '-' || ch == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// CollectResult 采集结果
type CollectResult struct {
	Post      Post
	SavedToDB bool
}
