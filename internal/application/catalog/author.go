// Package catalog 作者与分类的维护用例
package catalog

import (
	"context"

	"github.com/xiebiao/library/internal/domain/author"
)

// AuthorDTO 作者DTO
type AuthorDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Bio       string `json:"bio,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toAuthorDTO(a *author.Author) AuthorDTO {
	return AuthorDTO{
		ID:        a.ID,
		Name:      a.Name,
		Bio:       a.Bio,
		CreatedAt: a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// AuthorRequest 创建/修改作者请求
type AuthorRequest struct {
	Name string
	Bio  string
}

// AuthorUseCase 作者维护(增删改查都很薄，合并在一个用例里)
type AuthorUseCase struct {
	authors author.Service
}

// NewAuthorUseCase 创建作者用例
func NewAuthorUseCase(authors author.Service) *AuthorUseCase {
	return &AuthorUseCase{authors: authors}
}

// Create 创建作者
func (uc *AuthorUseCase) Create(ctx context.Context, req AuthorRequest) (*AuthorDTO, error) {
	a, err := uc.authors.Create(ctx, req.Name, req.Bio)
	if err != nil {
		return nil, err
	}
	dto := toAuthorDTO(a)
	return &dto, nil
}

// Get 查询作者
func (uc *AuthorUseCase) Get(ctx context.Context, id uint) (*AuthorDTO, error) {
	a, err := uc.authors.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toAuthorDTO(a)
	return &dto, nil
}

// List 按名称排序的作者列表
func (uc *AuthorUseCase) List(ctx context.Context) ([]AuthorDTO, error) {
	authors, err := uc.authors.List(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]AuthorDTO, 0, len(authors))
	for _, a := range authors {
		list = append(list, toAuthorDTO(a))
	}
	return list, nil
}

// Update 修改作者
func (uc *AuthorUseCase) Update(ctx context.Context, id uint, req AuthorRequest) (*AuthorDTO, error) {
	a, err := uc.authors.Update(ctx, id, req.Name, req.Bio)
	if err != nil {
		return nil, err
	}
	dto := toAuthorDTO(a)
	return &dto, nil
}

// Delete 删除作者，仍有图书引用时返回ErrAuthorInUse
func (uc *AuthorUseCase) Delete(ctx context.Context, id uint) error {
	return uc.authors.Delete(ctx, id)
}
