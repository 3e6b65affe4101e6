package response

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/pkg/consts"
	"XhsStudio/internal/pkg/remote"
	"XhsStudio/internal/pkg/util"
	"XhsStudio/internal/service"
	"errors"
	log "log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
	BadGateway          = 502
)

// SessionDropper 由会话中间件注入，401 时清理会话与 cookie
type SessionDropper func(c *gin.Context)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	if HandleUnauthorized(c, err) {
		return
	}
	code, message := Describe(err)
	Fail(c, code, message)
}

// Describe 错误对应的业务码与展示文案，HTML 页面内联展示时同样使用
func Describe(err error) (int, string) {
	var vErr *util.ValidationError
	if errors.As(err, &vErr) {
		return BadRequest, vErr.Message
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return BadRequest, "参数错误"
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		return BadRequest, "Json错误"
	}

	if code, ok := service.CodeOf(err); ok {
		return code, err.Error()
	}

	var be *remote.BackendError
	if errors.As(err, &be) {
		return be.Status, be.Message
	}

	var ne *remote.NetworkError
	if errors.As(err, &ne) {
		log.Warn("backend unreachable", "op", ne.Op, "err", ne.Err)
		return BadGateway, service.ErrBackendConnection.Error()
	}

	log.Error("Error", "err", err)
	return InternalServerError, service.UnExpectedError.Error()
}

// HandleUnauthorized 任一后端调用返回 401 时丢弃会话，页面跳转登录，JSON 返回 401 与跳转地址
func HandleUnauthorized(c *gin.Context, err error) bool {
	if !IsUnauthorized(err) {
		return false
	}
	if v, ok := c.Get(consts.ContextDropperKey); ok {
		if drop, ok := v.(SessionDropper); ok {
			drop(c)
		}
	}
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusOK, dto.Response{
			Code:     Unauthorized,
			Message:  service.ErrNotLoggedIn.Error(),
			Redirect: consts.LoginPath,
		})
		return true
	}
	c.Redirect(http.StatusSeeOther, consts.LoginPath)
	c.Abort()
	return true
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, remote.ErrUnauthorized) || errors.Is(err, service.ErrNotLoggedIn)
}

// WantsJSON /api 与 websocket 路径，或显式要求 JSON 的请求
func WantsJSON(c *gin.Context) bool {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/ws/") {
		return true
	}
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
