package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/admin"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// AdminHandler 管理后台报表
type AdminHandler struct {
	listLoans *admin.ListLoansUseCase
	stats     *admin.StatsUseCase
}

// NewAdminHandler 创建管理后台处理器
func NewAdminHandler(listLoans *admin.ListLoansUseCase, stats *admin.StatsUseCase) *AdminHandler {
	return &AdminHandler{listLoans: listLoans, stats: stats}
}

// ListLoans 借阅报表
// @Summary      借阅报表
// @Description  status: all/active/overdue/returned；search匹配书名、会员姓名、作者名
// @Tags         管理后台
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "状态" Enums(all, active, overdue, returned)
// @Param        search    query string false "关键字"
// @Param        page      query int    false "页码" default(1)
// @Param        page_size query int    false "每页数量" default(20)
// @Success      200 {object} response.Response{data=admin.ListLoansResponse}
// @Router       /api/v1/admin/loans [get]
func (h *AdminHandler) ListLoans(c *gin.Context) {
	var q dto.ListLoansQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listLoans.Execute(c.Request.Context(), admin.ListLoansRequest{
		Status:   q.Status,
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Stats 概览
// @Summary      概览统计
// @Tags         管理后台
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=loan.LibraryStats}
// @Router       /api/v1/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	result, err := h.stats.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
