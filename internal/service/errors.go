package service

import (
	"XhsStudio/internal/pkg/action"
	"XhsStudio/internal/pkg/collection"
	"XhsStudio/internal/pkg/session"
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	BadGateway          = 502
)

var (
	ErrParamInvalid      = errors.New("参数错误")
	ErrNotLoggedIn       = errors.New("请先登录")
	ErrLoginFailed       = errors.New("登录失败，请检查用户名和密码")
	ErrNoteNotFound      = errors.New("笔记不存在")
	ErrHistoryNotFound   = errors.New("二创记录不存在")
	ErrStoryNotFound     = errors.New("图文故事不存在")
	ErrNoCurrentStory    = errors.New("当前没有生成中的图文故事")
	ErrEmptyNote         = errors.New("笔记标题和内容为空，无法二创")
	ErrInvalidStory      = errors.New("生成的卡片数量不符合要求")
	ErrBackendConnection = errors.New("无法连接后端服务，请稍后重试")
	UnExpectedError      = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrNotLoggedIn:             Unauthorized,
	ErrLoginFailed:             Unauthorized,
	ErrNoteNotFound:            NotFound,
	ErrHistoryNotFound:         NotFound,
	ErrStoryNotFound:           NotFound,
	ErrNoCurrentStory:          NotFound,
	ErrEmptyNote:               BadRequest,
	ErrInvalidStory:            BadGateway,
	ErrBackendConnection:       BadGateway,
	UnExpectedError:            InternalServerError,
	session.ErrNotFound:        Unauthorized,
	session.ErrTokenExpired:    Unauthorized,
	collection.ErrNoMore:       BadRequest,
	collection.ErrBusy:         Conflict,
	collection.ErrInvalidState: Conflict,
	collection.ErrNotFound:     NotFound,
	collection.ErrClosed:       Conflict,
	action.ErrBusy:             Conflict,
	action.ErrInvalidPhase:     Conflict,
}

// CodeOf 查找错误对应的业务码，支持包装过的错误
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}
