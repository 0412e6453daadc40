package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// ProfileHandler 当前用户资料
type ProfileHandler struct {
	profileUseCase *appuser.ProfileUseCase
}

// NewProfileHandler 创建资料处理器
func NewProfileHandler(profileUseCase *appuser.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{profileUseCase: profileUseCase}
}

// Get 查询当前用户资料
// @Summary      当前用户资料
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.ProfileDTO}
// @Router       /api/v1/profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	result, err := h.profileUseCase.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Update 修改姓名
// @Summary      修改资料
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "姓名"
// @Success      200 {object} response.Response{data=appuser.ProfileDTO}
// @Router       /api/v1/profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.profileUseCase.UpdateName(c.Request.Context(), middleware.GetUserID(c), req.FullName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
