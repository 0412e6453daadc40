package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/catalog"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// CatalogHandler 作者与分类
type CatalogHandler struct {
	authors    *catalog.AuthorUseCase
	categories *catalog.CategoryUseCase
}

// NewCatalogHandler 创建处理器
func NewCatalogHandler(authors *catalog.AuthorUseCase, categories *catalog.CategoryUseCase) *CatalogHandler {
	return &CatalogHandler{authors: authors, categories: categories}
}

// ListAuthors 作者列表(按名称排序)
// @Summary      作者列表
// @Tags         作者
// @Produce      json
// @Success      200 {object} response.Response{data=[]catalog.AuthorDTO}
// @Router       /api/v1/authors [get]
func (h *CatalogHandler) ListAuthors(c *gin.Context) {
	list, err := h.authors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// GetAuthor 作者详情
// @Summary      作者详情
// @Tags         作者
// @Produce      json
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response{data=catalog.AuthorDTO}
// @Router       /api/v1/authors/{id} [get]
func (h *CatalogHandler) GetAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.authors.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateAuthor 新建作者
// @Summary      新建作者
// @Tags         作者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AuthorRequest true "作者信息"
// @Success      200 {object} response.Response{data=catalog.AuthorDTO}
// @Router       /api/v1/authors [post]
func (h *CatalogHandler) CreateAuthor(c *gin.Context) {
	var req dto.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.authors.Create(c.Request.Context(), catalog.AuthorRequest{Name: req.Name, Bio: req.Bio})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateAuthor 修改作者
// @Summary      修改作者
// @Tags         作者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Param        request body dto.AuthorRequest true "作者信息"
// @Success      200 {object} response.Response{data=catalog.AuthorDTO}
// @Router       /api/v1/authors/{id} [put]
func (h *CatalogHandler) UpdateAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.authors.Update(c.Request.Context(), id, catalog.AuthorRequest{Name: req.Name, Bio: req.Bio})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteAuthor 删除作者，仍有图书时拒绝
// @Summary      删除作者
// @Tags         作者
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/authors/{id} [delete]
func (h *CatalogHandler) DeleteAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.authors.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListCategories 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=[]catalog.CategoryDTO}
// @Router       /api/v1/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// CreateCategory 新建分类
// @Summary      新建分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CategoryRequest true "分类名"
// @Success      200 {object} response.Response{data=catalog.CategoryDTO}
// @Router       /api/v1/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.categories.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateCategory 修改分类
// @Summary      修改分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Param        request body dto.CategoryRequest true "分类名"
// @Success      200 {object} response.Response{data=catalog.CategoryDTO}
// @Router       /api/v1/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.categories.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteCategory 删除分类，仍有图书时拒绝
// @Summary      删除分类
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
