package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// DefaultHashCost bcrypt cost
// cost每+1耗时翻倍，12约250ms
const DefaultHashCost = 12

// Service 用户领域服务
// 设计说明：
// 1. 负责密码哈希与校验、登录凭证检查、角色判定
// 2. 用户与资料的事务性创建由应用层编排（需要TxManager）
type Service interface {
	// HashPassword 校验强度后生成bcrypt哈希
	HashPassword(password string) (string, error)

	// Authenticate 邮箱+密码登录
	// 邮箱不存在与密码错误返回同一个错误，避免枚举邮箱
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error

	// RoleFor 新用户的角色：邮箱在管理员名单中为admin，否则member
	RoleFor(email string) Role
}

type service struct {
	repo        Repository
	hashCost    int
	adminEmails map[string]struct{}
}

// NewService 创建用户服务
// hashCost<=0时使用DefaultHashCost
func NewService(repo Repository, hashCost int, adminEmails []string) Service {
	if hashCost <= 0 {
		hashCost = DefaultHashCost
	}
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[NormalizeEmail(e)] = struct{}{}
	}
	return &service{repo: repo, hashCost: hashCost, adminEmails: admins}
}

func (s *service) HashPassword(password string) (string, error) {
	if err := ValidatePasswordStrength(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

func (s *service) RoleFor(email string) Role {
	if _, ok := s.adminEmails[NormalizeEmail(email)]; ok {
		return RoleAdmin
	}
	return RoleMember
}
