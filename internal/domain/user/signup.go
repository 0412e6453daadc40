package user

import (
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 注册校验错误，在访问存储之前返回
var (
	ErrFullNameTooShort = apperrors.New(apperrors.ErrCodeInvalidParams, "姓名至少2个字符")
	ErrInvalidEmail     = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	ErrPasswordMismatch = apperrors.New(apperrors.ErrCodeInvalidParams, "两次输入的密码不一致")
	ErrProfileNotFound  = apperrors.New(apperrors.ErrCodeProfileNotFound, "用户资料不存在")

	// ErrInvalidRecoveryToken 找回密码凭证无效、已过期或已使用
	ErrInvalidRecoveryToken = apperrors.New(apperrors.ErrCodeInvalidRecoveryToken, "重置链接无效或已过期")
)

// MinPasswordLength 密码最短长度
const MinPasswordLength = 6

// SignUp 注册表单
type SignUp struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate 按顺序校验：姓名、邮箱、密码强度、确认密码
func (s SignUp) Validate() error {
	if err := validateFullName(strings.TrimSpace(s.FullName)); err != nil {
		return err
	}
	if !isValidEmail(s.Email) {
		return ErrInvalidEmail
	}
	if err := ValidatePasswordStrength(s.Password); err != nil {
		return err
	}
	if s.Password != s.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

func validateFullName(name string) error {
	if utf8.RuneCountInString(name) < 2 {
		return ErrFullNameTooShort
	}
	return nil
}

// isValidEmail 只要求形如 local@domain，具体可达性由找回密码流程验证
func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && strings.Count(email, "@") == 1
}

// ValidatePasswordStrength 密码强度校验
// 规则：至少6位，必须包含数字
func ValidatePasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.ErrWeakPassword
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
