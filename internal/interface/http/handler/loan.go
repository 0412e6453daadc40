package handler

import (
	"github.com/gin-gonic/gin"

	apploan "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// LoanHandler 借书、还书与个人借阅查询
type LoanHandler struct {
	borrowUseCase  *apploan.BorrowUseCase
	returnUseCase  *apploan.ReturnUseCase
	myLoansUseCase *apploan.MyLoansUseCase
	statsUseCase   *apploan.ReadingStatsUseCase
}

// NewLoanHandler 创建借阅处理器
func NewLoanHandler(
	borrowUseCase *apploan.BorrowUseCase,
	returnUseCase *apploan.ReturnUseCase,
	myLoansUseCase *apploan.MyLoansUseCase,
	statsUseCase *apploan.ReadingStatsUseCase,
) *LoanHandler {
	return &LoanHandler{
		borrowUseCase:  borrowUseCase,
		returnUseCase:  returnUseCase,
		myLoansUseCase: myLoansUseCase,
		statsUseCase:   statsUseCase,
	}
}

// Borrow 借书
// @Summary      借书
// @Description  失败时reason为NOT_FOUND、OUT_OF_STOCK、LOAN_LIMIT_REACHED、DUPLICATE_LOAN或UNKNOWN
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BorrowRequest true "图书ID"
// @Success      200 {object} response.Response{data=apploan.BorrowResponse}
// @Router       /api/v1/loans [post]
func (h *LoanHandler) Borrow(c *gin.Context) {
	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.borrowUseCase.Execute(c.Request.Context(), apploan.BorrowRequest{
		UserID: middleware.GetUserID(c),
		BookID: req.BookID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Return 还书
// @Summary      还书
// @Description  会员只能归还自己的借阅；重复归还返回ALREADY_RETURNED
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=apploan.ReturnResponse}
// @Router       /api/v1/loans/{id}/return [post]
func (h *LoanHandler) Return(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.returnUseCase.Execute(c.Request.Context(), apploan.ReturnRequest{
		LoanID:  id,
		UserID:  middleware.GetUserID(c),
		IsAdmin: middleware.IsAdmin(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// MyLoans 我的借阅
// @Summary      我的借阅
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=apploan.MyLoansResponse}
// @Router       /api/v1/loans/me [get]
func (h *LoanHandler) MyLoans(c *gin.Context) {
	result, err := h.myLoansUseCase.Execute(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// MyStats 阅读统计
// @Summary      阅读统计
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=loan.ReadingStats}
// @Router       /api/v1/loans/me/stats [get]
func (h *LoanHandler) MyStats(c *gin.Context) {
	result, err := h.statsUseCase.Execute(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
