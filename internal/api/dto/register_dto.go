package dto

// CredentialDTO 登录表单
type CredentialDTO struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RegisterDTO 注册表单
type RegisterDTO struct {
	Username        string `json:"username" form:"username" validate:"required,min=3,max=20"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"eqfield=Password"`
	Email           string `json:"email,omitempty" form:"email" validate:"omitempty,email"`
	Nickname        string `json:"nickname,omitempty" form:"nickname" validate:"omitempty,max=30"`
}
