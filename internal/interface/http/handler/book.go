package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	apploan "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createUseCase     *appbook.CreateBookUseCase
	getUseCase        *appbook.GetBookUseCase
	listUseCase       *appbook.ListBooksUseCase
	recentUseCase     *appbook.RecentBooksUseCase
	updateUseCase     *appbook.UpdateBookUseCase
	deleteUseCase     *appbook.DeleteBookUseCase
	coverUseCase      *appbook.UploadCoverUseCase
	loanStatusUseCase *apploan.CheckExistingLoanUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createUseCase *appbook.CreateBookUseCase,
	getUseCase *appbook.GetBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	recentUseCase *appbook.RecentBooksUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
	coverUseCase *appbook.UploadCoverUseCase,
	loanStatusUseCase *apploan.CheckExistingLoanUseCase,
) *BookHandler {
	return &BookHandler{
		createUseCase:     createUseCase,
		getUseCase:        getUseCase,
		listUseCase:       listUseCase,
		recentUseCase:     recentUseCase,
		updateUseCase:     updateUseCase,
		deleteUseCase:     deleteUseCase,
		coverUseCase:      coverUseCase,
		loanStatusUseCase: loanStatusUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询，支持书名关键字、作者、分类筛选，按上架时间倒序
// @Tags         图书
// @Produce      json
// @Param        page        query int    false "页码" default(1)
// @Param        page_size   query int    false "每页数量" default(20)
// @Param        keyword     query string false "书名关键字"
// @Param        author_id   query int    false "作者ID"
// @Param        category_id query int    false "分类ID"
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:       q.Page,
		PageSize:   q.PageSize,
		Keyword:    q.Keyword,
		AuthorID:   q.AuthorID,
		CategoryID: q.CategoryID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RecentBooks 最新上架
// @Summary      最新上架
// @Tags         图书
// @Produce      json
// @Param        limit query int false "条数" default(5)
// @Success      200 {object} response.Response{data=[]appbook.BookListItem}
// @Router       /api/v1/books/recent [get]
func (h *BookHandler) RecentBooks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.recentUseCase.Execute(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateBook 上架图书
// @Summary      上架图书
// @Description  新书全部在架：可借数 = 馆藏数
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		ISBN:        req.ISBN,
		Title:       req.Title,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
		TotalCopies: req.TotalCopies,
		CoverURL:    req.CoverURL,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  调整馆藏数时可借数按差值平移，不能少于已借出数
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "修改内容"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), id, appbook.UpdateBookRequest{
		ISBN:        req.ISBN,
		Title:       req.Title,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
		TotalCopies: req.TotalCopies,
		CoverURL:    req.CoverURL,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  存在借阅记录(含已归还)的图书不能删除
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UploadCover 上传封面
// @Summary      上传封面
// @Description  支持jpeg/png/webp，最大5MB
// @Tags         图书
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path     int  true "图书ID"
// @Param        cover formData file true "封面图片"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Router       /api/v1/books/{id}/cover [post]
func (h *BookHandler) UploadCover(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, appbook.MaxCoverSize+1<<20)
	fh, err := c.FormFile("cover")
	if err != nil {
		bindError(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "读取上传文件失败"))
		return
	}
	defer f.Close()

	result, err := h.coverUseCase.Execute(c.Request.Context(), appbook.UploadCoverRequest{
		BookID:      id,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// LoanStatus 当前用户是否已借阅该书且未归还
// @Summary      借阅状态
// @Description  每次都查数据库，借还书后可立即反映
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=apploan.ExistingLoanResponse}
// @Router       /api/v1/books/{id}/loan-status [get]
func (h *BookHandler) LoanStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.loanStatusUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
