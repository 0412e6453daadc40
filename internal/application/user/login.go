package user

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
)

// LoginUseCase 用户登录用例
//  1. 验证邮箱密码
//  2. 读取资料拿到角色，生成JWT Token对
//  3. 保存会话到Redis，发布SIGNED_IN
type LoginUseCase struct {
	userService  user.Service
	profileRepo  user.ProfileRepository
	jwtManager   *jwt.Manager
	sessionStore SessionStore
	events       user.AuthEventBus
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	profileRepo user.ProfileRepository,
	jwtManager *jwt.Manager,
	sessionStore SessionStore,
	events user.AuthEventBus,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		profileRepo:  profileRepo,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		events:       events,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token过期时间（秒）
}

// UserInfo 用户信息
type UserInfo struct {
	ID       uint      `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     user.Role `json:"role"`
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.FindByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, string(profile.Role))
	if err != nil {
		return nil, err
	}

	log := logger.Ctx(ctx)

	// 会话有效期 = Refresh Token有效期
	sessionData := map[string]interface{}{
		"user_id":  u.ID,
		"email":    u.Email,
		"role":     string(profile.Role),
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, uc.jwtManager.RefreshTokenTTL()); err != nil {
		// 会话保存失败不影响登录
		log.Warn("保存会话失败", "user_id", u.ID, "error", err)
	}

	publish(ctx, uc.events, user.AuthEvent{Type: user.EventSignedIn, UserID: u.ID, Email: u.Email})

	return &LoginResponse{
		User: UserInfo{
			ID:       u.ID,
			Email:    u.Email,
			FullName: profile.FullName,
			Role:     profile.Role,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore SessionStore
	jwtManager   *jwt.Manager
	events       user.AuthEventBus
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore SessionStore, jwtManager *jwt.Manager, events user.AuthEventBus) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore, jwtManager: jwtManager, events: events}
}

// Execute 执行登出
// 删除会话，Access Token进黑名单(过期时间与Token有效期一致)，通知该用户的其他在线会话
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, email, accessToken string) error {
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}

	if err := uc.sessionStore.AddToBlacklist(ctx, accessToken, uc.jwtManager.AccessTokenTTL()); err != nil {
		return err
	}

	publish(ctx, uc.events, user.AuthEvent{Type: user.EventSignedOut, UserID: userID, Email: email})
	return nil
}

// RefreshTokenUseCase 刷新Access Token
type RefreshTokenUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore SessionStore
}

// NewRefreshTokenUseCase 创建刷新用例
func NewRefreshTokenUseCase(jwtManager *jwt.Manager, sessionStore SessionStore) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{jwtManager: jwtManager, sessionStore: sessionStore}
}

// RefreshResponse 刷新结果
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Execute 用Refresh Token换取新的Access Token，已加入黑名单的Refresh Token不可用
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	revoked, err := uc.sessionStore.IsInBlacklist(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}

	access, err := uc.jwtManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{
		AccessToken: access,
		ExpiresIn:   int64(uc.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

// publish 认证事件尽力而为，失败只记日志
func publish(ctx context.Context, bus user.AuthEventBus, event user.AuthEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := bus.Publish(ctx, event); err != nil {
		logger.Ctx(ctx).Warn("发布认证事件失败", "type", event.Type, "user_id", event.UserID, "error", err)
	}
}
