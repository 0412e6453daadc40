package dto

// AuthorRequest 新建/修改作者
type AuthorRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"George Orwell"`
	Bio  string `json:"bio" binding:"max=5000" example:"英国作家"`
}

// CategoryRequest 新建/修改分类
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=50" example:"小说"`
}

// CreateBookRequest 上架请求
type CreateBookRequest struct {
	ISBN        string `json:"isbn" binding:"required" example:"9780451524935"`
	Title       string `json:"title" binding:"required,max=200" example:"1984"`
	AuthorID    uint   `json:"author_id" binding:"required" example:"1"`
	CategoryID  uint   `json:"category_id" binding:"required" example:"1"`
	TotalCopies int    `json:"total_copies" binding:"required,min=1,max=10000" example:"3"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	Description string `json:"description" binding:"max=5000"`
}

// UpdateBookRequest 修改图书，省略的字段不修改
type UpdateBookRequest struct {
	ISBN        string  `json:"isbn" example:"9780451524935"`
	Title       string  `json:"title" binding:"max=200"`
	AuthorID    uint    `json:"author_id"`
	CategoryID  uint    `json:"category_id"`
	TotalCopies *int    `json:"total_copies" binding:"omitempty,min=0,max=10000" example:"5"`
	CoverURL    *string `json:"cover_url" binding:"omitempty,max=500"`
	Description string  `json:"description" binding:"max=5000"`
}

// ListBooksQuery 图书列表查询参数
type ListBooksQuery struct {
	Page       int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword    string `form:"keyword" binding:"omitempty,max=100" example:"1984"`
	AuthorID   uint   `form:"author_id"`
	CategoryID uint   `form:"category_id"`
}
