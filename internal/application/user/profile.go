package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
)

// ProfileDTO 当前用户资料
type ProfileDTO struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      user.Role `json:"role"`
	CreatedAt string    `json:"created_at"`
}

// ProfileUseCase 资料查询与修改
type ProfileUseCase struct {
	userRepo    user.Repository
	profileRepo user.ProfileRepository
}

// NewProfileUseCase 创建资料用例
func NewProfileUseCase(userRepo user.Repository, profileRepo user.ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo, profileRepo: profileRepo}
}

// Get 查询当前用户资料
func (uc *ProfileUseCase) Get(ctx context.Context, userID uint) (*ProfileDTO, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileDTO(u, p), nil
}

// UpdateName 修改姓名(角色不能自行修改)
func (uc *ProfileUseCase) UpdateName(ctx context.Context, userID uint, fullName string) (*ProfileDTO, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := p.Rename(fullName); err != nil {
		return nil, err
	}
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProfileDTO(u, p), nil
}

func toProfileDTO(u *user.User, p *user.Profile) *ProfileDTO {
	return &ProfileDTO{
		UserID:    u.ID,
		Email:     u.Email,
		FullName:  p.FullName,
		Role:      p.Role,
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
