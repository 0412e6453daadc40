package user

import (
	"strings"
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. User只承载身份信息（邮箱+密码哈希），展示信息在Profile
// 2. 密码以bcrypt哈希存储，领域层不暴露明文
// 3. 注册时User与Profile在同一事务中创建，不存在"有用户无资料"的中间状态
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Email:     NormalizeEmail(email),
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ChangePassword 替换密码哈希
func (u *User) ChangePassword(hashedPassword string) {
	u.Password = hashedPassword
	u.UpdatedAt = time.Now()
}

// NormalizeEmail 邮箱统一小写、去空白
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Role 用户角色
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Profile 用户资料，与User一对一（主键即user_id）
type Profile struct {
	UserID    uint
	FullName  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile 创建用户资料
func NewProfile(userID uint, fullName string, role Role) *Profile {
	now := time.Now()
	return &Profile{
		UserID:    userID,
		FullName:  strings.TrimSpace(fullName),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否为管理员
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Rename 修改姓名
func (p *Profile) Rename(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if err := validateFullName(fullName); err != nil {
		return err
	}
	p.FullName = fullName
	p.UpdatedAt = time.Now()
	return nil
}
