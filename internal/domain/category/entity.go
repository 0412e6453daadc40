package category

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Category 图书分类
type Category struct {
	ID        uint
	Name      string
	CreatedAt time.Time
}

// NewCategory 创建分类，名称去掉首尾空白后至少2个字符
func NewCategory(name string) (*Category, error) {
	c := &Category{CreatedAt: time.Now()}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	return c, nil
}

// Rename 修改分类名称
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return ErrInvalidName
	}
	c.Name = name
	return nil
}
