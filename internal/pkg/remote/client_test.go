package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/logger"
	"XhsStudio/internal/pkg/util"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionCookie = "backend_session"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(NewHTTPClient(srv.URL, time.Second, nil), DefaultRoutes(), model.Credential{})
}

func loggedIn(r *http.Request) bool {
	c, err := r.Cookie(sessionCookie)
	return err == nil && c.Value == "s1"
}

func TestClient_LoginThenStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "用户名或密码错误"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "s1", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"user":    map[string]any{"id": 7, "username": body["username"]},
		})
	})
	mux.HandleFunc("GET /auth/status", func(w http.ResponseWriter, r *http.Request) {
		if !loggedIn(r) {
			writeJSON(w, http.StatusOK, map[string]any{"logged_in": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"logged_in": true, "user": map[string]any{"id": 7, "username": "alice"}})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	_, err := client.Login(ctx, "alice", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "用户名或密码错误", err.Error())

	res, err := client.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, int64(7), res.User.UserID)
	require.Len(t, res.Credential.Cookies, 1)

	// 未携带凭据的客户端不共享 cookie
	anon, err := client.Status(ctx)
	require.NoError(t, err)
	assert.False(t, anon.LoggedIn)

	st, err := client.WithCredential(res.Credential).Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.LoggedIn)
	assert.Equal(t, "alice", st.User.Username)
}

func TestCollection_ListShapes(t *testing.T) {
	cases := []struct {
		name    string
		body    any
		limit   int
		offset  int
		items   int
		total   int
		hasMore bool
	}{
		{
			name:  "bare array",
			body:  []map[string]any{{"note_id": "a"}, {"note_id": "b"}},
			limit: 20, items: 2, total: 2, hasMore: false,
		},
		{
			name: "pagination",
			body: map[string]any{
				"success":    true,
				"data":       []map[string]any{{"note_id": "a"}, {"note_id": "b"}},
				"pagination": map[string]any{"total": 5, "offset": 0, "limit": 2},
			},
			limit: 2, items: 2, total: 5, hasMore: true,
		},
		{
			name: "pagination last page",
			body: map[string]any{
				"data":       []map[string]any{{"note_id": "e"}},
				"pagination": map[string]any{"total": 5, "offset": 4, "limit": 2},
			},
			limit: 2, offset: 4, items: 1, total: 5, hasMore: false,
		},
		{
			name: "nested history",
			body: map[string]any{
				"success": true,
				"data": map[string]any{
					"history":  []map[string]any{{"note_id": "a"}},
					"total":    3,
					"has_more": true,
				},
			},
			limit: 1, items: 1, total: 3, hasMore: true,
		},
		{
			name:  "top level total",
			body:  map[string]any{"data": []map[string]any{{"note_id": "a"}}, "total": 1},
			limit: 20, items: 1, total: 1, hasMore: false,
		},
		{
			name:  "over-long page is cut to limit",
			body:  []map[string]any{{"note_id": "a"}, {"note_id": "b"}, {"note_id": "c"}},
			limit: 2, items: 2, total: 2, hasMore: true,
		},
		{
			name:  "null data",
			body:  map[string]any{"success": true, "data": nil},
			limit: 20, items: 0, total: 0, hasMore: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, c.body)
			})
			page, err := newTestClient(t, mux).Posts().List(context.Background(), c.limit, c.offset)
			require.NoError(t, err)
			assert.Len(t, page.Items, c.items)
			assert.NotNil(t, page.Items)
			assert.Equal(t, c.total, page.Total)
			assert.Equal(t, c.hasMore, page.HasMore)
		})
	}
}

func TestCollection_ListRejectsBadPaging(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	_, err := newTestClient(t, mux).Posts().List(context.Background(), 0, 0)
	var vErr *util.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.False(t, called)
}

func TestCollection_CreateListRemove(t *testing.T) {
	var stored []model.RewriteRecord
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rewrites/history", func(w http.ResponseWriter, r *http.Request) {
		var rec model.RewriteRecord
		_ = json.NewDecoder(r.Body).Decode(&rec)
		rec.ID = int64(len(stored) + 1)
		stored = append([]model.RewriteRecord{rec}, stored...)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": rec})
	})
	mux.HandleFunc("GET /rewrites/history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"history": stored, "total": len(stored), "has_more": false},
		})
	})
	mux.HandleFunc("DELETE /rewrites/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		for i, rec := range stored {
			if rec.Key() == r.PathValue("id") {
				stored = append(stored[:i], stored[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]any{"success": true})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "记录不存在"})
	})
	src := newTestClient(t, mux).Rewrites()
	ctx := context.Background()

	created, err := src.Create(ctx, model.RewriteRecord{NoteTitle: "原标题", RecreatedTitle: "新标题"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	page, err := src.List(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "新标题", page.Items[0].RecreatedTitle)

	require.NoError(t, src.Remove(ctx, "1"))

	err = src.Remove(ctx, "1")
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusNotFound, be.Status)
	assert.Equal(t, "记录不存在", be.Message)

	page, err = src.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
}

func TestClient_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false})
	})
	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "采集失败"})
	})
	mux.HandleFunc("POST /rewrites", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	_, err := client.Posts().List(ctx, 20, 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "请先登录", err.Error())

	_, err = client.CollectPost(ctx, "https://xhslink.com/a", "")
	assert.True(t, IsBackend(err))
	assert.Equal(t, "采集失败", err.Error())
	assert.False(t, errors.Is(err, ErrUnauthorized))

	_, err = client.Recreate(ctx, "t", "c", "")
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusBadGateway, be.Status)

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	offline := NewClient(NewHTTPClient(srv.URL, time.Second, nil), DefaultRoutes(), model.Credential{})
	_, err = offline.Status(ctx)
	assert.True(t, IsNetwork(err))
	assert.False(t, IsBackend(err))
}

func TestClient_CollectAndRecreate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "a=b", body["cookies"])
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"saved_to_db": true,
			"data": map[string]any{
				"note_id": "n1",
				"title":   "标题",
				"stats":   map[string]any{"likes": "1.2万", "collects": 30},
			},
		})
	})
	mux.HandleFunc("POST /rewrites", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "n1", body["note_id"])
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"new_title": "新" + body["title"], "new_content": "新内容"},
		})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	res, err := client.CollectPost(ctx, "https://xhslink.com/a", "a=b")
	require.NoError(t, err)
	assert.True(t, res.SavedToDB)
	assert.Equal(t, "n1", res.Post.Key())
	assert.Equal(t, model.Count(1), res.Post.Stats.Likes)
	assert.Equal(t, model.Count(30), res.Post.Stats.Collects)

	rw, err := client.Recreate(ctx, "标题", "内容", "n1")
	require.NoError(t, err)
	assert.Equal(t, "新标题", rw.NewTitle)
}

func TestClient_AIConfig(t *testing.T) {
	var saved map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ai-config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{"config": map[string]any{
				"deepseek_api_key":     "sk-***abcd",
				"deepseek_model":       "deepseek-chat",
				"deepseek_temperature": "0.9",
				"gemini_max_tokens":    2048,
			}},
		})
	})
	mux.HandleFunc("POST /ai-config", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&saved)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	mux.HandleFunc("POST /ai-config/test", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	cfg, err := client.GetAIConfig(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.Rewrite.KeyMasked())
	assert.Equal(t, 0.9, cfg.Rewrite.Temperature)
	assert.Equal(t, 2048, cfg.Story.MaxTokens)
	assert.Equal(t, model.DefaultAIConfig().Story.Model, cfg.Story.Model)

	require.NoError(t, client.UpdateAIConfig(ctx, map[string]string{"gemini_model": "gemini-pro"}))
	assert.Equal(t, "gemini-pro", saved["gemini_model"])

	msg, err := client.TestAIConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "连接成功", msg)
}

func TestClient_GenerateStory(t *testing.T) {
	legacy := true
	mux := http.NewServeMux()
	mux.HandleFunc("POST /visual-story/generate", func(w http.ResponseWriter, r *http.Request) {
		if legacy {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"html_content": "只有一段文字"},
			})
			return
		}
		cards := make([]map[string]any, 3)
		for i := range cards {
			cards[i] = map[string]any{"title": "卡片", "layout": "b", "image_url": "https://img"}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{"visual_story": map[string]any{
				"id":            9,
				"cover_card":    map[string]any{"title": "封面", "layout": "a", "image_url": "https://img"},
				"content_cards": cards,
			}},
		})
	})
	client := newTestClient(t, mux)
	req := StoryRequest{HistoryID: 3, Title: "标题", Content: "内容", Model: "gemini"}

	vs, err := client.GenerateStory(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(3), vs.HistoryID)
	assert.Len(t, vs.ContentCards, 1)
	assert.Equal(t, "只有一段文字", vs.HTML)

	legacy = false
	vs, err = client.GenerateStory(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(9), vs.ID)
	assert.Equal(t, "标题", vs.Title)
	assert.Equal(t, "gemini", vs.Model)
	assert.Len(t, vs.ContentCards, 3)
	assert.Contains(t, vs.HTML, "<title>标题</title>")
}

func TestClient_ForwardsTraceID(t *testing.T) {
	var got string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/status", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(logger.TraceHeader)
		writeJSON(w, http.StatusOK, map[string]any{"logged_in": false})
	})
	ctx := logger.WithTraceID(context.Background(), "trace-1")
	_, err := newTestClient(t, mux).Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "trace-1", got)
}
