package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("xhsurl", func(fl validator.FieldLevel) bool {
		return IsValidXhsUrl(strings.TrimSpace(fl.Field().String()))
	})
}

// ValidationError 表单在发起网络请求前被拒绝
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError 构造校验错误
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// 字段 + 规则 -> 提示语
var validationMessages = map[string]string{
	"Username.required":        "用户名不能为空",
	"Username.min":             "用户名长度应在3-20个字符之间",
	"Username.max":             "用户名长度应在3-20个字符之间",
	"Password.required":        "密码不能为空",
	"Password.min":             "密码长度至少6个字符",
	"ConfirmPassword.eqfield":  "两次输入的密码不一致",
	"Email.email":              "邮箱格式不正确",
	"URL.required":             "请输入小红书笔记链接",
	"URL.xhsurl":               "请输入有效的小红书笔记链接",
	"Limit.min":                "分页大小必须大于0",
	"Offset.min":               "偏移量不能为负数",
	"Title.required_without":   "标题和内容不能同时为空",
	"Content.required_without": "标题和内容不能同时为空",
}

// ValidateDTO 校验结构体，返回第一个失败字段对应的 ValidationError
func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			firstError := vErrs[0]
			msg, ok := validationMessages[firstError.Field()+"."+firstError.Tag()]
			if !ok {
				msg = fmt.Sprintf("字段 [%s] 校验失败，规则 [%s]",
					firstError.Field(),
					firstError.Tag())
			}
			return NewValidationError(firstError.Field(), msg)
		}
		return err
	}
	return nil
}

// ValidatePaging 分页参数：limit > 0，offset >= 0
func ValidatePaging(limit, offset int) error {
	if limit <= 0 {
		return NewValidationError("Limit", validationMessages["Limit.min"])
	}
	if offset < 0 {
		return NewValidationError("Offset", validationMessages["Offset.min"])
	}
	return nil
}
