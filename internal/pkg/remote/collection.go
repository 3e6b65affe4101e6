package remote

import (
	"context"
	"net/http"
	"strconv"

	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/util"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Collection 后端的一个可分页资源
type Collection[T any] struct {
	client *Client
	path   string
}

// List GET path?limit&offset，最多返回 limit 条
func (s *Collection[T]) List(ctx context.Context, limit, offset int) (model.Page[T], error) {
	if err := util.ValidatePaging(limit, offset); err != nil {
		return model.Page[T]{}, err
	}
	req := s.client.request(ctx).SetQueryParams(map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	})
	env, _, err := s.client.call(req, http.MethodGet, s.path)
	if err != nil {
		return model.Page[T]{}, err
	}
	page, err := decodePage[T](env, limit, offset)
	if err != nil {
		return page, &BackendError{Status: http.StatusOK, Message: err.Error()}
	}
	return page, nil
}

// Create POST path
func (s *Collection[T]) Create(ctx context.Context, payload any) (T, error) {
	item, _, err := s.create(ctx, payload)
	return item, err
}

func (s *Collection[T]) create(ctx context.Context, payload any) (T, *envelope, error) {
	var item T
	env, _, err := s.client.call(s.client.request(ctx).SetBody(payload), http.MethodPost, s.path)
	if err != nil {
		return item, env, err
	}
	if !isNull(env.Data) {
		if err = json.Unmarshal(env.Data, &item); err != nil {
			return item, env, &BackendError{Status: http.StatusOK, Message: errors.Wrap(err, "decode created item").Error()}
		}
	}
	return item, env, nil
}

// Remove DELETE path/{id}
func (s *Collection[T]) Remove(ctx context.Context, id string) error {
	req := s.client.request(ctx).SetPathParam("id", id)
	_, _, err := s.client.call(req, http.MethodDelete, s.path+"/{id}")
	return err
}
