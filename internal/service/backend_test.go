package service

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/remote"

	"github.com/goccy/go-json"
)

// fakeBackend 内存中的后端服务
type fakeBackend struct {
	mu        sync.Mutex
	loggedIn  bool
	posts     []model.Post
	rewrites  []model.RewriteRecord
	stories   []model.VisualStory
	listCalls map[string]int
	aiValues  map[string]string
	savedToDB bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		loggedIn:  true,
		listCalls: make(map[string]int),
		savedToDB: true,
	}
}

func (b *fakeBackend) calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listCalls[path]
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret1" {
			reply(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "用户名或密码错误"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "backend-1"})
		reply(w, http.StatusOK, map[string]any{"success": true, "user": map[string]any{"id": 1, "username": body["username"]}})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"success": true})
	})
	mux.HandleFunc("GET /auth/status", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		reply(w, http.StatusOK, map[string]any{"logged_in": b.loggedIn, "user": map[string]any{"id": 1, "username": "alice"}})
	})

	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.listCalls[r.URL.Path]++
		reply(w, http.StatusOK, map[string]any{"success": true, "data": b.posts, "total": len(b.posts)})
	})
	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		post := model.Post{ID: "n" + strconv.Itoa(len(b.posts)+1), Title: "新笔记", Content: "正文"}
		b.posts = append([]model.Post{post}, b.posts...)
		reply(w, http.StatusOK, map[string]any{"success": true, "saved_to_db": b.savedToDB, "data": post})
	})
	mux.HandleFunc("DELETE /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, p := range b.posts {
			if p.Key() == r.PathValue("id") {
				b.posts = append(b.posts[:i], b.posts[i+1:]...)
				break
			}
		}
		reply(w, http.StatusOK, map[string]any{"success": true})
	})

	mux.HandleFunc("POST /rewrites", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.rewrites = append([]model.RewriteRecord{{
			ID:               int64(len(b.rewrites) + 1),
			NoteID:           body["note_id"],
			OriginalTitle:    body["title"],
			RecreatedTitle:   "二创：" + body["title"],
			RecreatedContent: "二创内容",
		}}, b.rewrites...)
		reply(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"new_title": "二创：" + body["title"], "new_content": "二创内容"}})
	})
	mux.HandleFunc("GET /rewrites/history", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.listCalls[r.URL.Path]++
		reply(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"history": b.rewrites, "total": len(b.rewrites), "has_more": false}})
	})

	mux.HandleFunc("POST /visual-story/generate", func(w http.ResponseWriter, r *http.Request) {
		var req remote.StoryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		vs := model.VisualStory{
			ID:        int64(len(b.stories) + 1),
			HistoryID: req.HistoryID,
			Title:     req.Title,
			CoverCard: model.Card{Title: req.Title, Layout: model.LayoutImageTextOverlay, ImageURL: "https://img/0"},
		}
		for i := 1; i <= 3; i++ {
			vs.ContentCards = append(vs.ContentCards, model.Card{Title: "第" + strconv.Itoa(i) + "页", Layout: model.LayoutImageTopTextBottom, ImageURL: "https://img/" + strconv.Itoa(i)})
		}
		b.stories = append([]model.VisualStory{vs}, b.stories...)
		reply(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"visual_story": vs}})
	})
	mux.HandleFunc("GET /visual-story/history", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.listCalls[r.URL.Path]++
		reply(w, http.StatusOK, map[string]any{"success": true, "data": b.stories, "pagination": map[string]any{"total": len(b.stories), "offset": 0, "limit": 20}})
	})

	mux.HandleFunc("POST /ai-config", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&b.aiValues)
		reply(w, http.StatusOK, map[string]any{"success": true})
	})
	return mux
}

func (b *fakeBackend) start(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func newTestRegistry(baseURL string) *WorkspaceRegistryImpl {
	return NewWorkspaceRegistry(WorkspaceOptions{
		HTTP:         remote.NewHTTPClient(baseURL, time.Second, nil),
		Routes:       remote.DefaultRoutes(),
		PageSize:     20,
		ProgressTick: 10 * time.Millisecond,
		ProgressCap:  85,
	}).(*WorkspaceRegistryImpl)
}

func newTestWorkspace(t *testing.T, b *fakeBackend) *Workspace {
	t.Helper()
	reg := newTestRegistry(b.start(t))
	ws := reg.Get(&model.Session{ID: "s1", User: model.User{UserID: 1, Username: "alice"}})
	t.Cleanup(ws.Close)
	return ws
}
