package dto

// RegisterRequest 注册请求
// 长度、邮箱格式、密码强度由领域层校验，这里只保证字段存在
type RegisterRequest struct {
	FullName        string `json:"full_name" binding:"required" example:"张三"`
	Email           string `json:"email" binding:"required" example:"reader@example.com"`
	Password        string `json:"password" binding:"required" example:"secret1"`
	ConfirmPassword string `json:"confirm_password" binding:"required" example:"secret1"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"reader@example.com"`
	Password string `json:"password" binding:"required" example:"secret1"`
}

// RefreshRequest 刷新Access Token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RecoverPasswordRequest 找回密码
type RecoverPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"reader@example.com"`
}

// ResetPasswordRequest 用找回凭证重置密码
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required" example:"newsecret2"`
	ConfirmPassword string `json:"confirm_password" binding:"required" example:"newsecret2"`
}

// UpdateProfileRequest 修改资料
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required,max=100" example:"李四"`
}
