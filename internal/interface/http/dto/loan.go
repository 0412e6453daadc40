package dto

// BorrowRequest 借书请求
type BorrowRequest struct {
	BookID uint `json:"book_id" binding:"required" example:"1"`
}

// ListLoansQuery 管理后台借阅报表查询参数
type ListLoansQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=all active overdue returned" example:"overdue"`
	Search   string `form:"search" binding:"omitempty,max=100" example:"Orwell"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
