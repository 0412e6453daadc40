package catalog

import (
	"context"

	"github.com/xiebiao/library/internal/domain/category"
)

// CategoryDTO 分类DTO
type CategoryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CategoryUseCase 分类维护
// 名称唯一、删除保护交给数据库约束，仓储负责转换成领域错误
type CategoryUseCase struct {
	repo category.Repository
}

// NewCategoryUseCase 创建分类用例
func NewCategoryUseCase(repo category.Repository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create 创建分类
func (uc *CategoryUseCase) Create(ctx context.Context, name string) (*CategoryDTO, error) {
	c, err := category.NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &CategoryDTO{ID: c.ID, Name: c.Name}, nil
}

// List 分类列表
func (uc *CategoryUseCase) List(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		list = append(list, CategoryDTO{ID: c.ID, Name: c.Name})
	}
	return list, nil
}

// Update 重命名分类
func (uc *CategoryUseCase) Update(ctx context.Context, id uint, name string) (*CategoryDTO, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return &CategoryDTO{ID: c.ID, Name: c.Name}, nil
}

// Delete 删除分类
func (uc *CategoryUseCase) Delete(ctx context.Context, id uint) error {
	return uc.repo.Delete(ctx, id)
}
