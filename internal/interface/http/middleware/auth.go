package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/response"
)

// Context键
const (
	ctxUserID      = "user_id"
	ctxEmail       = "email"
	ctxRole        = "role"
	ctxAccessToken = "access_token"
)

// TokenBlacklist 已注销Token查询(Redis SessionStore实现)
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
//  1. 从Header提取Token(WebSocket握手时允许access_token查询参数)
//  2. 检查黑名单
//  3. 只接受Access Token
//  4. 用户信息写入gin.Context与request context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, blacklist: blacklist}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if revoked {
			response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ParseAccessToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxAccessToken, token)
		c.Request = c.Request.WithContext(logger.ContextWithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// RequireRole 要求指定角色，必须放在RequireAuth之后
func (m *AuthMiddleware) RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != role {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// bearerToken Authorization: Bearer <token>
// 浏览器的WebSocket API无法设置Header，升级请求可以用?access_token=
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if websocketUpgrade(c) {
			token := c.Query("access_token")
			return token, token != ""
		}
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func websocketUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

// GetUserID 当前登录用户ID，未登录为0
func GetUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// GetEmail 当前登录用户邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetRole 当前登录用户角色
func GetRole(c *gin.Context) user.Role {
	return user.Role(c.GetString(ctxRole))
}

// IsAdmin 当前用户是否为管理员
func IsAdmin(c *gin.Context) bool {
	return GetRole(c) == user.RoleAdmin
}

// GetAccessToken 本次请求使用的Access Token(登出时加入黑名单)
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}
