package util

import (
	"testing"

	"XhsStudio/internal/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidXhsUrl(t *testing.T) {
	assert.True(t, IsValidXhsUrl("https://www.xiaohongshu.com/explore/64a1b2c3d4"))
	assert.True(t, IsValidXhsUrl("http://www.xiaohongshu.com/discovery/item/abc123"))
	assert.True(t, IsValidXhsUrl("https://xhslink.com/AbC9"))

	assert.False(t, IsValidXhsUrl(""))
	assert.False(t, IsValidXhsUrl("https://www.xiaohongshu.com/user/profile/123"))
	assert.False(t, IsValidXhsUrl("https://example.com/explore/abc"))
}

func validationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr
}

func TestValidateDTO_Register(t *testing.T) {
	ok := dto.RegisterDTO{Username: "alice", Password: "secret1", ConfirmPassword: "secret1", Email: "a@b.cn"}
	assert.NoError(t, ValidateDTO(&ok))

	short := ok
	short.Username = "ab"
	vErr := validationError(t, ValidateDTO(&short))
	assert.Equal(t, "Username", vErr.Field)
	assert.Equal(t, "用户名长度应在3-20个字符之间", vErr.Message)

	weak := ok
	weak.Password, weak.ConfirmPassword = "123", "123"
	assert.Equal(t, "密码长度至少6个字符", validationError(t, ValidateDTO(&weak)).Message)

	mismatch := ok
	mismatch.ConfirmPassword = "secret2"
	vErr = validationError(t, ValidateDTO(&mismatch))
	assert.Equal(t, "ConfirmPassword", vErr.Field)
	assert.Equal(t, "两次输入的密码不一致", vErr.Message)

	badMail := ok
	badMail.Email = "not-a-mail"
	assert.Equal(t, "邮箱格式不正确", validationError(t, ValidateDTO(&badMail)).Message)
}

func TestValidateDTO_Collect(t *testing.T) {
	vErr := validationError(t, ValidateDTO(&dto.CollectDTO{}))
	assert.Equal(t, "请输入小红书笔记链接", vErr.Message)

	vErr = validationError(t, ValidateDTO(&dto.CollectDTO{URL: "https://example.com"}))
	assert.Equal(t, "URL", vErr.Field)
	assert.Equal(t, "请输入有效的小红书笔记链接", vErr.Message)

	assert.NoError(t, ValidateDTO(&dto.CollectDTO{URL: " https://xhslink.com/AbC9 "}))
}

func TestValidatePaging(t *testing.T) {
	assert.NoError(t, ValidatePaging(20, 0))
	assert.Equal(t, "Limit", validationError(t, ValidatePaging(0, 0)).Field)
	assert.Equal(t, "Offset", validationError(t, ValidatePaging(10, -1)).Field)
}
