package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// UserHandler 注册、登录、登出、刷新Token与找回密码
// Handler只做HTTP相关的事情：解析请求、调用应用层、写响应
type UserHandler struct {
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	logoutUseCase   *appuser.LogoutUseCase
	refreshUseCase  *appuser.RefreshTokenUseCase
	recoverUseCase  *appuser.RecoverPasswordUseCase
	resetUseCase    *appuser.ResetPasswordUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	refreshUseCase *appuser.RefreshTokenUseCase,
	recoverUseCase *appuser.RecoverPasswordUseCase,
	resetUseCase *appuser.ResetPasswordUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
		refreshUseCase:  refreshUseCase,
		recoverUseCase:  recoverUseCase,
		resetUseCase:    resetUseCase,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建会员账号，邮箱在管理员名单中时角色为admin
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=appuser.RegisterResponse} "注册成功"
// @Failure      200 {object} response.Response "参数错误、邮箱已存在、密码强度不足"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证邮箱密码，返回JWT Token对
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse} "登录成功"
// @Failure      200 {object} response.Response "邮箱或密码错误"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 登出
// @Summary      登出
// @Description  删除会话并把当前Access Token加入黑名单
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	err := h.logoutUseCase.Execute(c.Request.Context(),
		middleware.GetUserID(c),
		middleware.GetEmail(c),
		middleware.GetAccessToken(c),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Refresh 刷新Access Token
// @Summary      刷新Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=appuser.RefreshResponse}
// @Router       /api/v1/users/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.refreshUseCase.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RecoverPassword 找回密码
// @Summary      找回密码
// @Description  邮箱未注册时同样返回成功，不暴露账号是否存在
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RecoverPasswordRequest true "邮箱"
// @Success      200 {object} response.Response{data=appuser.RecoverPasswordResponse}
// @Router       /api/v1/users/password/recover [post]
func (h *UserHandler) RecoverPassword(c *gin.Context) {
	var req dto.RecoverPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.recoverUseCase.Execute(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ResetPassword 重置密码
// @Summary      重置密码
// @Description  凭证一次有效，成功后原会话失效
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.ResetPasswordRequest true "凭证与新密码"
// @Success      200 {object} response.Response
// @Router       /api/v1/users/password/reset [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	err := h.resetUseCase.Execute(c.Request.Context(), appuser.ResetPasswordRequest{
		Token:           req.Token,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
