package remote

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"XhsStudio/internal/model"
	"XhsStudio/internal/pkg/logger"
	"XhsStudio/internal/pkg/story"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// DefaultTimeout 单次后端调用的整体超时
const DefaultTimeout = 30 * time.Second

// Routes 后端接口路径，不同部署环境下路径可能不同
type Routes struct {
	Login          string `mapstructure:"login"`
	Logout         string `mapstructure:"logout"`
	Status         string `mapstructure:"status"`
	Register       string `mapstructure:"register"`
	Posts          string `mapstructure:"posts"`
	Rewrites       string `mapstructure:"rewrites"`
	RewriteHistory string `mapstructure:"rewrite_history"`
	AIConfig       string `mapstructure:"ai_config"`
	AIConfigTest   string `mapstructure:"ai_config_test"`
	StoryGenerate  string `mapstructure:"story_generate"`
	StoryHistory   string `mapstructure:"story_history"`
}

func DefaultRoutes() Routes {
	return Routes{
		Login:          "/auth/login",
		Logout:         "/auth/logout",
		Status:         "/auth/status",
		Register:       "/auth/register",
		Posts:          "/posts",
		Rewrites:       "/rewrites",
		RewriteHistory: "/rewrites/history",
		AIConfig:       "/ai-config",
		AIConfigTest:   "/ai-config/test",
		StoryGenerate:  "/visual-story/generate",
		StoryHistory:   "/visual-story/history",
	}
}

// NewHTTPClient 构造共享的 resty 客户端。不启用 cookie jar，凭据只通过 Client 显式传递
func NewHTTPClient(baseURL string, timeout time.Duration, transport http.RoundTripper) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetCookieJar(nil).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	if transport != nil {
		client.SetTransport(transport)
	}
	return client
}

// Client 绑定单个会话凭据的后端客户端
type Client struct {
	http   *resty.Client
	routes Routes
	cred   model.Credential
}

func NewClient(http *resty.Client, routes Routes, cred model.Credential) *Client {
	return &Client{
		http:   http,
		routes: routes,
		cred:   cred,
	}
}

// WithCredential 返回使用新凭据的副本
func (c *Client) WithCredential(cred model.Credential) *Client {
	return NewClient(c.http, c.routes, cred)
}

func (c *Client) Credential() model.Credential {
	return c.cred
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if traceID := logger.TraceID(ctx); traceID != "" {
		req.SetHeader(logger.TraceHeader, traceID)
	}
	if len(c.cred.Cookies) > 0 {
		req.SetCookies(c.cred.Cookies)
	}
	if c.cred.Token != "" {
		req.SetAuthToken(c.cred.Token)
	}
	return req
}

// call 发起请求并解析统一返回结构
func (c *Client) call(req *resty.Request, method, path string) (*envelope, *resty.Response, error) {
	op := method + " " + path
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, nil, &NetworkError{Op: op, Err: err}
	}

	env, decErr := decodeEnvelope(resp.Body())
	status := resp.StatusCode()

	if status == http.StatusUnauthorized {
		msg := "请先登录"
		if env != nil && env.message() != "" {
			msg = env.message()
		}
		return nil, resp, &BackendError{Status: status, Message: msg}
	}
	if decErr != nil {
		if status >= http.StatusBadRequest {
			return nil, resp, &BackendError{Status: status, Message: http.StatusText(status)}
		}
		return nil, resp, &BackendError{Status: status, Message: errors.Wrap(decErr, op).Error()}
	}
	if status >= http.StatusBadRequest || !env.ok() {
		msg := env.message()
		if msg == "" {
			msg = "请求失败: " + strconv.Itoa(status)
		}
		return env, resp, &BackendError{Status: status, Message: msg}
	}
	return env, resp, nil
}

// LoginResult 登录结果与新凭据
type LoginResult struct {
	User       *model.User
	Credential model.Credential
}

// Login POST /auth/login，凭据来自响应 Set-Cookie 与可选的 token
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	req := c.request(ctx).SetBody(map[string]string{
		"username": username,
		"password": password,
	})
	env, resp, err := c.call(req, http.MethodPost, c.routes.Login)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		User: env.User,
		Credential: model.Credential{
			Token:   env.Token,
			Cookies: resp.Cookies(),
		},
	}, nil
}

// Logout POST /auth/logout
func (c *Client) Logout(ctx context.Context) error {
	_, _, err := c.call(c.request(ctx), http.MethodPost, c.routes.Logout)
	return err
}

// Status GET /auth/status
func (c *Client) Status(ctx context.Context) (*model.AuthStatus, error) {
	env, _, err := c.call(c.request(ctx), http.MethodGet, c.routes.Status)
	if err != nil {
		return nil, err
	}
	status := &model.AuthStatus{User: env.User}
	if env.LoggedIn != nil {
		status.LoggedIn = *env.LoggedIn
	}
	return status, nil
}

// RegisterRequest 注册参数
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

// Register POST /auth/register
func (c *Client) Register(ctx context.Context, r RegisterRequest) error {
	_, _, err := c.call(c.request(ctx).SetBody(r), http.MethodPost, c.routes.Register)
	return err
}

// CollectPost POST /posts，提交链接由后端采集
func (c *Client) CollectPost(ctx context.Context, url, cookies string) (*model.CollectResult, error) {
	body := map[string]string{"url": url}
	if cookies != "" {
		body["cookies"] = cookies
	}
	post, env, err := c.Posts().create(ctx, body)
	if err != nil {
		return nil, err
	}
	return &model.CollectResult{Post: post, SavedToDB: env.SavedToDB}, nil
}

// Recreate POST /rewrites，返回 AI 二创结果，后端同时写入二创历史
func (c *Client) Recreate(ctx context.Context, title, content, noteID string) (*model.Rewrite, error) {
	body := map[string]string{"title": title, "content": content}
	if noteID != "" {
		body["note_id"] = noteID
	}
	env, _, err := c.call(c.request(ctx).SetBody(body), http.MethodPost, c.routes.Rewrites)
	if err != nil {
		return nil, err
	}
	var rw model.Rewrite
	if err = json.Unmarshal(env.Data, &rw); err != nil {
		return nil, &BackendError{Status: http.StatusOK, Message: errors.Wrap(err, "decode rewrite").Error()}
	}
	return &rw, nil
}

// GetAIConfig GET /ai-config
func (c *Client) GetAIConfig(ctx context.Context) (model.AIConfig, error) {
	cfg := model.DefaultAIConfig()
	env, _, err := c.call(c.request(ctx), http.MethodGet, c.routes.AIConfig)
	if err != nil {
		return cfg, err
	}
	var data struct {
		Config map[string]any `json:"config"`
	}
	if !isNull(env.Data) {
		if err = json.Unmarshal(env.Data, &data); err != nil {
			return cfg, &BackendError{Status: http.StatusOK, Message: errors.Wrap(err, "decode ai config").Error()}
		}
	}
	applyModelConfig(&cfg.Rewrite, data.Config, "deepseek_")
	applyModelConfig(&cfg.Story, data.Config, "gemini_")
	return cfg, nil
}

func applyModelConfig(m *model.ModelConfig, raw map[string]any, prefix string) {
	if v := stringValue(raw[prefix+"api_key"]); v != "" {
		m.APIKey = v
	}
	if v := stringValue(raw[prefix+"model"]); v != "" {
		m.Model = v
	}
	if f, err := strconv.ParseFloat(stringValue(raw[prefix+"temperature"]), 64); err == nil {
		m.Temperature = f
	}
	if n := model.ParseLeadingInt(stringValue(raw[prefix+"max_tokens"])); n > 0 {
		m.MaxTokens = int(n)
	}
}

func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// UpdateAIConfig POST /ai-config，值均以字符串提交
func (c *Client) UpdateAIConfig(ctx context.Context, values map[string]string) error {
	_, _, err := c.call(c.request(ctx).SetBody(values), http.MethodPost, c.routes.AIConfig)
	return err
}

// TestAIConfig POST /ai-config/test
func (c *Client) TestAIConfig(ctx context.Context) (string, error) {
	env, _, err := c.call(c.request(ctx), http.MethodPost, c.routes.AIConfigTest)
	if err != nil {
		return "", err
	}
	if env.Message == "" {
		return "连接成功", nil
	}
	return env.Message, nil
}

// StoryRequest 图文故事生成参数
type StoryRequest struct {
	HistoryID int64  `json:"history_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Model     string `json:"model"`
}

// GenerateStory POST /visual-story/generate
func (c *Client) GenerateStory(ctx context.Context, r StoryRequest) (*model.VisualStory, error) {
	env, _, err := c.call(c.request(ctx).SetBody(r), http.MethodPost, c.routes.StoryGenerate)
	if err != nil {
		return nil, err
	}
	var data struct {
		VisualStory *model.VisualStory `json:"visual_story"`
		HTMLContent string             `json:"html_content"`
	}
	if !isNull(env.Data) {
		if err = json.Unmarshal(env.Data, &data); err != nil {
			return nil, &BackendError{Status: http.StatusOK, Message: errors.Wrap(err, "decode visual story").Error()}
		}
	}

	var vs *model.VisualStory
	if data.VisualStory != nil {
		vs = data.VisualStory
	} else {
		// 旧版接口只返回 html_content
		vs = story.FromLegacyHTML(r.Title, data.HTMLContent)
	}
	vs.HistoryID = r.HistoryID
	if vs.Title == "" {
		vs.Title = r.Title
	}
	if vs.Model == "" {
		vs.Model = r.Model
	}
	if vs.HTML == "" {
		if vs.HTML, err = story.Render(vs); err != nil {
			return nil, err
		}
	}
	return vs, nil
}

// Posts 已采集笔记
func (c *Client) Posts() *Collection[model.Post] {
	return &Collection[model.Post]{client: c, path: c.routes.Posts}
}

// Rewrites 二创历史
func (c *Client) Rewrites() *Collection[model.RewriteRecord] {
	return &Collection[model.RewriteRecord]{client: c, path: c.routes.RewriteHistory}
}

// Stories 图文故事历史
func (c *Client) Stories() *Collection[model.VisualStory] {
	return &Collection[model.VisualStory]{client: c, path: c.routes.StoryHistory}
}
