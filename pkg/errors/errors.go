package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Reason是借还书失败的机器可读原因（NOT_FOUND、OUT_OF_STOCK等），客户端按它分支
// 4. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`             // 业务错误码
	Message string `json:"message"`          // 用户友好的错误提示
	Reason  Reason `json:"reason,omitempty"` // 借还书失败原因
	Err     error  `json:"-"`                // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，预定义错误被WithCause复制后仍能用errors.Is匹配
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Reason == t.Reason
}

// WithReason 返回带失败原因的副本（不修改预定义错误本身）
func (e *AppError) WithReason(reason Reason) *AppError {
	cp := *e
	cp.Reason = reason
	return &cp
}

// WithCause 返回附带内部错误的副本
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 借还书失败原因
// =========================================

// Reason 借还书事务的失败原因，服务端与客户端共用同一组取值
type Reason string

const (
	ReasonNotFound         Reason = "NOT_FOUND"
	ReasonAlreadyReturned  Reason = "ALREADY_RETURNED"
	ReasonOutOfStock       Reason = "OUT_OF_STOCK"
	ReasonLoanLimitReached Reason = "LOAN_LIMIT_REACHED"
	ReasonDuplicateLoan    Reason = "DUPLICATE_LOAN"
	ReasonUnknown          Reason = "UNKNOWN"
)

// ReasonOf 提取错误携带的失败原因，没有则为UNKNOWN
func ReasonOf(err error) Reason {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Reason != "" {
		return appErr.Reason
	}
	return ReasonUnknown
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal     = 50000 // 内部错误
	ErrCodeStorageError = 50003 // 对象存储错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized         = 40100 // 未登录
	ErrCodeInvalidToken         = 40101 // Token无效
	ErrCodeTokenExpired         = 40102 // Token过期
	ErrCodeInvalidPassword      = 40103 // 密码错误
	ErrCodeForbidden            = 40104 // 无权限
	ErrCodeInvalidRecoveryToken = 40105 // 密码重置凭证无效

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound     = 40401 // 用户不存在
	ErrCodeBookNotFound     = 40402 // 图书不存在
	ErrCodeAuthorNotFound   = 40403 // 作者不存在
	ErrCodeLoanNotFound     = 40404 // 借阅记录不存在
	ErrCodeCategoryNotFound = 40405 // 分类不存在
	ErrCodeProfileNotFound  = 40406 // 用户资料不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError    = 40000 // 业务错误(通用)
	ErrCodeOutOfStock       = 40001 // 无可借副本
	ErrCodeAlreadyReturned  = 40002 // 已归还
	ErrCodeEmailDuplicate   = 40003 // 邮箱已存在
	ErrCodeISBNDuplicate    = 40004 // ISBN已存在
	ErrCodeWeakPassword     = 40005 // 密码强度不足
	ErrCodeLoanLimitReached = 40006 // 借阅数量已达上限
	ErrCodeDuplicateLoan    = 40007 // 重复借阅同一本书
	ErrCodeInUse            = 40008 // 被其他记录引用，不能删除
	ErrCodeNameDuplicate    = 40010 // 名称已存在

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal = New(ErrCodeInternal, "系统内部错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "邮箱或密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrUserNotFound = New(ErrCodeUserNotFound, "用户不存在")

	// 业务规则
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "密码至少6位且必须包含数字")

)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.WithCause(err)
}

// IsClientError 4xxxx错误属于业务拒绝，调用方不应重试
func IsClientError(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code >= 40000 && appErr.Code < 50000
}
