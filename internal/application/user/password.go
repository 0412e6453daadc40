package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

// RecoverPasswordUseCase 申请找回密码
// 生成一次性凭证存入Redis并发布PASSWORD_RECOVERY；邮箱不存在时同样返回成功，避免枚举邮箱
type RecoverPasswordUseCase struct {
	userRepo    user.Repository
	tokens      RecoveryTokenStore
	events      user.AuthEventBus
	ttl         time.Duration
	exposeToken bool
}

// NewRecoverPasswordUseCase 创建找回密码用例
// exposeToken为true时在响应中返回凭证(非release模式下用于联调，生产环境由邮件送达)
func NewRecoverPasswordUseCase(
	userRepo user.Repository,
	tokens RecoveryTokenStore,
	events user.AuthEventBus,
	ttl time.Duration,
	exposeToken bool,
) *RecoverPasswordUseCase {
	return &RecoverPasswordUseCase{
		userRepo:    userRepo,
		tokens:      tokens,
		events:      events,
		ttl:         ttl,
		exposeToken: exposeToken,
	}
}

// RecoverPasswordResponse 找回密码响应
type RecoverPasswordResponse struct {
	Token string `json:"token,omitempty"`
}

// Execute 执行申请
func (uc *RecoverPasswordUseCase) Execute(ctx context.Context, email string) (*RecoverPasswordResponse, error) {
	u, err := uc.userRepo.FindByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			logger.Ctx(ctx).Info("找回密码的邮箱未注册", "email", user.NormalizeEmail(email))
			return &RecoverPasswordResponse{}, nil
		}
		return nil, err
	}

	token := uuid.NewString()
	if err := uc.tokens.SaveRecoveryToken(ctx, token, u.ID, uc.ttl); err != nil {
		return nil, err
	}

	publish(ctx, uc.events, user.AuthEvent{Type: user.EventPasswordRecovery, UserID: u.ID, Email: u.Email})

	resp := &RecoverPasswordResponse{}
	if uc.exposeToken {
		resp.Token = token
	}
	return resp, nil
}

// ResetPasswordUseCase 凭证重置密码
type ResetPasswordUseCase struct {
	userService user.Service
	userRepo    user.Repository
	tokens      RecoveryTokenStore
	sessions    SessionStore
}

// NewResetPasswordUseCase 创建重置密码用例
func NewResetPasswordUseCase(
	userService user.Service,
	userRepo user.Repository,
	tokens RecoveryTokenStore,
	sessions SessionStore,
) *ResetPasswordUseCase {
	return &ResetPasswordUseCase{userService: userService, userRepo: userRepo, tokens: tokens, sessions: sessions}
}

// ResetPasswordRequest 重置请求
type ResetPasswordRequest struct {
	Token           string
	Password        string
	ConfirmPassword string
}

// Execute 执行重置
// 密码规则与注册相同；凭证在校验通过后才消费，只能使用一次；重置后删除现有会话
func (uc *ResetPasswordUseCase) Execute(ctx context.Context, req ResetPasswordRequest) error {
	if err := user.ValidatePasswordStrength(req.Password); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return user.ErrPasswordMismatch
	}

	userID, err := uc.tokens.ConsumeRecoveryToken(ctx, req.Token)
	if err != nil {
		return err
	}

	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hashed, err := uc.userService.HashPassword(req.Password)
	if err != nil {
		return err
	}
	u.ChangePassword(hashed)
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return err
	}

	if err := uc.sessions.DeleteSession(ctx, u.ID); err != nil {
		logger.Ctx(ctx).Warn("重置密码后删除会话失败", "user_id", u.ID, "error", err)
	}
	return nil
}
