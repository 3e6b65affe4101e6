package remote

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ErrUnauthorized 后端返回 401，调用方应跳转登录页
var ErrUnauthorized = errors.New("未登录或登录已过期")

// NetworkError 传输层失败或超时，没有收到响应
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("网络错误(%s): %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BackendError 收到响应，但 success 为 false 或状态码非 2xx
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return e.Message
}

func (e *BackendError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// IsNetwork 是否为网络错误
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsBackend 是否为后端业务错误
func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
