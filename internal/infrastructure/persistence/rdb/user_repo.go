package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// userRepository 用户仓储实现
// 邮箱唯一性由UNIQUE索引保证(而非先SELECT再INSERT)，冲突时转换为ErrEmailDuplicate
type userRepository struct {
	conn
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{conn{db: db}}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Email:    u.Email,
		Password: u.Password,
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.first(r.getDB(ctx), "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(r.getDB(ctx), "email = ?", email)
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	result := r.getDB(ctx).Model(&UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"password":   u.Password,
			"updated_at": u.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新用户失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// LockByID SELECT ... FOR UPDATE，必须在事务内调用
func (r *userRepository) LockByID(ctx context.Context, id uint) (*user.User, error) {
	return r.first(r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (r *userRepository) first(db *gorm.DB, query string, arg interface{}) (*user.User, error) {
	var model UserModel
	if err := db.Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return &user.User{
		ID:        model.ID,
		Email:     model.Email,
		Password:  model.Password,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// profileRepository 用户资料仓储
type profileRepository struct {
	conn
}

// NewProfileRepository 创建资料仓储
func NewProfileRepository(db *gorm.DB) user.ProfileRepository {
	return &profileRepository{conn{db: db}}
}

func (r *profileRepository) Create(ctx context.Context, p *user.Profile) error {
	model := &ProfileModel{
		UserID:   p.UserID,
		FullName: p.FullName,
		Role:     string(p.Role),
	}
	if err := r.getDB(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建用户资料失败")
	}
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uint) (*user.Profile, error) {
	var model ProfileModel
	if err := r.getDB(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户资料失败")
	}
	return &user.Profile{
		UserID:    model.UserID,
		FullName:  model.FullName,
		Role:      user.Role(model.Role),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

func (r *profileRepository) Update(ctx context.Context, p *user.Profile) error {
	result := r.getDB(ctx).Model(&ProfileModel{}).
		Where("user_id = ?", p.UserID).
		Updates(map[string]interface{}{
			"full_name":  p.FullName,
			"role":       string(p.Role),
			"updated_at": p.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新用户资料失败")
	}
	if result.RowsAffected == 0 {
		return user.ErrProfileNotFound
	}
	return nil
}
