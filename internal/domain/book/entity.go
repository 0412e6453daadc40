package book

import (
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. TotalCopies是馆藏副本总数,AvailableCopies是当前在架可借数
// 2. 不变量: 0 <= AvailableCopies <= TotalCopies
// 3. AvailableCopies只在借书/还书事务中变化(以及管理员调整馆藏时按差值平移)
// 4. AuthorName/CategoryName是查询时联表填充的只读字段,不参与持久化
type Book struct {
	ID              uint
	ISBN            string
	Title           string
	AuthorID        uint
	CategoryID      uint
	TotalCopies     int
	AvailableCopies int
	CoverURL        string
	Description     string
	AuthorName      string
	CategoryName    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
// 新书全部在架: AvailableCopies = TotalCopies
func NewBook(isbn, title string, authorID, categoryID uint, totalCopies int, coverURL, description string) *Book {
	now := time.Now()
	return &Book{
		ISBN:            strings.TrimSpace(isbn),
		Title:           strings.TrimSpace(title),
		AuthorID:        authorID,
		CategoryID:      categoryID,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		CoverURL:        strings.TrimSpace(coverURL),
		Description:     strings.TrimSpace(description),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// OnLoan 当前借出的副本数
func (b *Book) OnLoan() int {
	return b.TotalCopies - b.AvailableCopies
}

// IsAvailable 是否还有可借副本
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// ResizeInventory 调整馆藏总数(领域行为)
// 业务规则:
// - 总数不能为负
// - 总数不能少于已借出的副本数
// - 借出数不变,可借数随总数平移
func (b *Book) ResizeInventory(newTotal int) error {
	if newTotal < 0 {
		return ErrInvalidCopies
	}
	onLoan := b.OnLoan()
	if newTotal < onLoan {
		return ErrBelowOnLoan
	}
	b.TotalCopies = newTotal
	b.AvailableCopies = newTotal - onLoan
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息,空字符串表示不修改
func (b *Book) UpdateInfo(title, isbn, description string) {
	if title = strings.TrimSpace(title); title != "" {
		b.Title = title
	}
	if isbn = strings.TrimSpace(isbn); isbn != "" {
		b.ISBN = isbn
	}
	if description != "" {
		b.Description = strings.TrimSpace(description)
	}
	b.UpdatedAt = time.Now()
}

// SetCover 设置封面地址
func (b *Book) SetCover(url string) {
	b.CoverURL = url
	b.UpdatedAt = time.Now()
}
