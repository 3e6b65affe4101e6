package remote

import (
	"bytes"

	"XhsStudio/internal/model"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// envelope 后端各接口返回结构的并集
type envelope struct {
	Success    *bool           `json:"success"`
	Data       json.RawMessage `json:"data"`
	Pagination *pagination     `json:"pagination"`
	Total      *int            `json:"total"`
	HasMore    *bool           `json:"has_more"`
	Error      string          `json:"error"`
	Message    string          `json:"message"`
	Token      string          `json:"token"`
	User       *model.User     `json:"user"`
	LoggedIn   *bool           `json:"logged_in"`
	SavedToDB  bool            `json:"saved_to_db"`
}

type pagination struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// nestedList data 为对象时的列表结构 {history|items|notes|records, total, has_more}
type nestedList struct {
	History json.RawMessage `json:"history"`
	Items   json.RawMessage `json:"items"`
	Notes   json.RawMessage `json:"notes"`
	Records json.RawMessage `json:"records"`
	Total   *int            `json:"total"`
	HasMore *bool           `json:"has_more"`
}

func (n *nestedList) list() json.RawMessage {
	for _, raw := range []json.RawMessage{n.History, n.Items, n.Notes, n.Records} {
		if len(raw) > 0 {
			return raw
		}
	}
	return nil
}

func (e *envelope) ok() bool {
	return e.Success == nil || *e.Success
}

func (e *envelope) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

func decodeEnvelope(body []byte) (*envelope, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return &envelope{}, nil
	}
	// 仅返回数组
	if body[0] == '[' {
		return &envelope{Data: json.RawMessage(body)}, nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(err, "decode envelope")
	}
	return &env, nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// decodePage 将多种分页结构归一化为 model.Page
func decodePage[T any](env *envelope, limit, offset int) (model.Page[T], error) {
	var page model.Page[T]

	listRaw := bytes.TrimSpace(env.Data)
	total, hasMore := env.Total, env.HasMore

	if len(listRaw) > 0 && listRaw[0] == '{' {
		var nested nestedList
		if err := json.Unmarshal(listRaw, &nested); err != nil {
			return page, errors.Wrap(err, "decode nested list")
		}
		listRaw = nested.list()
		if nested.Total != nil {
			total = nested.Total
		}
		if nested.HasMore != nil {
			hasMore = nested.HasMore
		}
	}

	if !isNull(listRaw) {
		if err := json.Unmarshal(listRaw, &page.Items); err != nil {
			return page, errors.Wrap(err, "decode list items")
		}
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	if len(page.Items) > limit {
		page.Items = page.Items[:limit]
	}
	fetched := offset + len(page.Items)

	switch {
	case env.Pagination != nil:
		p := *env.Pagination
		if p.Limit <= 0 {
			p.Limit = limit
		}
		if p.Offset < 0 {
			p.Offset = offset
		}
		page.Total = p.Total
		page.HasMore = p.Offset+p.Limit < p.Total
	case hasMore != nil:
		page.HasMore = *hasMore
		if total != nil {
			page.Total = *total
		} else {
			page.Total = fetched
		}
	default:
		// 没有可信的分页信息：total 可能只是本页条数
		page.Total = fetched
		if total != nil && *total > fetched {
			page.Total = *total
		}
		page.HasMore = len(page.Items) >= limit || page.Total > fetched
	}
	if page.Total < fetched {
		page.Total = fetched
	}

	return page, nil
}
