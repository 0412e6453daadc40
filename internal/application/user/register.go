package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain"
	"github.com/xiebiao/library/internal/domain/user"
)

// RegisterUseCase 用户注册用例
//  1. 表单校验(姓名、邮箱、密码强度、确认密码)，不合法时不访问存储
//  2. 密码bcrypt哈希
//  3. 同一事务内创建User与Profile，角色由管理员邮箱名单决定
type RegisterUseCase struct {
	txManager   domain.TxManager
	userService user.Service
	userRepo    user.Repository
	profileRepo user.ProfileRepository
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(
	txManager domain.TxManager,
	userService user.Service,
	userRepo user.Repository,
	profileRepo user.ProfileRepository,
) *RegisterUseCase {
	return &RegisterUseCase{
		txManager:   txManager,
		userService: userService,
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// RegisterResponse 注册响应(不含密码)
type RegisterResponse struct {
	ID       uint      `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     user.Role `json:"role"`
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	form := user.SignUp{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	hashed, err := uc.userService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := user.NewUser(req.Email, hashed)
	var profile *user.Profile
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		// 邮箱唯一由唯一索引保证，仓储转换为ErrEmailDuplicate
		if err := uc.userRepo.Create(ctx, u); err != nil {
			return err
		}
		profile = user.NewProfile(u.ID, req.FullName, uc.userService.RoleFor(u.Email))
		return uc.profileRepo.Create(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	return &RegisterResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: profile.FullName,
		Role:     profile.Role,
	}, nil
}
