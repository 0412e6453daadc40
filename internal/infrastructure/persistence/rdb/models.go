package rdb

import (
	"time"
)

// 以下是infrastructure层的数据模型，包含GORM tag；领域实体不依赖GORM，仓储负责转换。
// 所有删除都是物理删除，外键ON DELETE RESTRICT保证被引用的行删不掉。

// UserModel 用户(身份)
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// ProfileModel 用户资料，主键即user_id
type ProfileModel struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	FullName  string    `gorm:"size:100;not null;comment:姓名"`
	Role      string    `gorm:"size:20;not null;default:member;comment:角色(admin/member)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`

	User UserModel `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}

// AuthorModel 作者
type AuthorModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:100;not null;comment:作者名"`
	Bio       string    `gorm:"type:text;comment:简介"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (AuthorModel) TableName() string {
	return "authors"
}

// CategoryModel 分类
type CategoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:50;not null;comment:分类名"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel 图书
// available_copies只在借还书事务和馆藏调整中变化，条件更新保证不越界
type BookModel struct {
	ID              uint      `gorm:"primaryKey"`
	ISBN            string    `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title           string    `gorm:"index;size:200;not null;comment:书名"`
	AuthorID        uint      `gorm:"index;not null;comment:作者ID"`
	CategoryID      uint      `gorm:"index;not null;comment:分类ID"`
	TotalCopies     int       `gorm:"not null;default:1;comment:馆藏副本数"`
	AvailableCopies int       `gorm:"not null;default:1;comment:可借副本数"`
	CoverURL        string    `gorm:"size:500;comment:封面图片URL"`
	Description     string    `gorm:"type:text;comment:图书描述"`
	CreatedAt       time.Time `gorm:"index;comment:上架时间"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`

	Author   AuthorModel   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Category CategoryModel `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (BookModel) TableName() string {
	return "books"
}

// LoanModel 借阅记录
// status只存active/returned，overdue在读取时由due_date推导
type LoanModel struct {
	ID         uint       `gorm:"primaryKey"`
	UserID     uint       `gorm:"index:idx_loans_user_return;not null;comment:借阅人"`
	BookID     uint       `gorm:"index;not null;comment:图书ID"`
	BorrowDate time.Time  `gorm:"not null;comment:借出时间"`
	DueDate    time.Time  `gorm:"index;not null;comment:到期时间"`
	ReturnDate *time.Time `gorm:"index:idx_loans_user_return;comment:归还时间"`
	Status     string     `gorm:"size:20;not null;default:active;comment:状态(active/returned)"`
	CreatedAt  time.Time  `gorm:"comment:创建时间"`

	User UserModel `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Book BookModel `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (LoanModel) TableName() string {
	return "loans"
}
