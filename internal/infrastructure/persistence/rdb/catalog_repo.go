package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/domain/category"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// authorRepository 作者仓储
type authorRepository struct {
	conn
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) author.Repository {
	return &authorRepository{conn{db: db}}
}

func (r *authorRepository) Create(ctx context.Context, a *author.Author) error {
	model := &AuthorModel{Name: a.Name, Bio: a.Bio}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return author.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "创建作者失败")
	}
	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	return nil
}

func (r *authorRepository) FindByID(ctx context.Context, id uint) (*author.Author, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *authorRepository) FindByName(ctx context.Context, name string) (*author.Author, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *authorRepository) List(ctx context.Context) ([]*author.Author, error) {
	var models []AuthorModel
	if err := r.getDB(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询作者列表失败")
	}
	authors := make([]*author.Author, len(models))
	for i := range models {
		authors[i] = toAuthorEntity(&models[i])
	}
	return authors, nil
}

func (r *authorRepository) Update(ctx context.Context, a *author.Author) error {
	err := r.getDB(ctx).Model(&AuthorModel{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{"name": a.Name, "bio": a.Bio}).Error
	if err != nil {
		if isDuplicateError(err) {
			return author.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "更新作者失败")
	}
	return nil
}

func (r *authorRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&AuthorModel{}, id)
	if result.Error != nil {
		// HasBooks检查之后仍可能有并发上架，外键兜底
		if isForeignKeyError(result.Error) {
			return author.ErrAuthorInUse
		}
		return apperrors.Wrap(result.Error, "删除作者失败")
	}
	if result.RowsAffected == 0 {
		return author.ErrAuthorNotFound
	}
	return nil
}

func (r *authorRepository) HasBooks(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.getDB(ctx).Model(&BookModel{}).Where("author_id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "查询作者图书失败")
	}
	return count > 0, nil
}

func (r *authorRepository) first(ctx context.Context, query string, arg interface{}) (*author.Author, error) {
	var model AuthorModel
	if err := r.getDB(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, apperrors.Wrap(err, "查询作者失败")
	}
	return toAuthorEntity(&model), nil
}

func toAuthorEntity(m *AuthorModel) *author.Author {
	return &author.Author{ID: m.ID, Name: m.Name, Bio: m.Bio, CreatedAt: m.CreatedAt}
}

// categoryRepository 分类仓储
// 唯一与删除保护完全依赖数据库约束
type categoryRepository struct {
	conn
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{conn{db: db}}
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{Name: c.Name}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "创建分类失败")
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return &category.Category{ID: model.ID, Name: model.Name, CreatedAt: model.CreatedAt}, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	if err := r.getDB(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类列表失败")
	}
	list := make([]*category.Category, len(models))
	for i, m := range models {
		list[i] = &category.Category{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}
	}
	return list, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	result := r.getDB(ctx).Model(&CategoryModel{}).Where("id = ?", c.ID).Update("name", c.Name)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return category.ErrNameDuplicate
		}
		return apperrors.Wrap(result.Error, "更新分类失败")
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&CategoryModel{}, id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return category.ErrCategoryInUse
		}
		return apperrors.Wrap(result.Error, "删除分类失败")
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}
