package author

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MinNameLength 作者名最少字符数（按rune计）
const MinNameLength = 2

// Author 作者实体
// 作者名全局唯一（数据库唯一索引保证）
type Author struct {
	ID        uint
	Name      string
	Bio       string
	CreatedAt time.Time
}

// NewAuthor 创建作者（工厂方法）
// 名称会去掉首尾空白后校验长度
func NewAuthor(name, bio string) (*Author, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	return &Author{
		Name:      name,
		Bio:       strings.TrimSpace(bio),
		CreatedAt: time.Now(),
	}, nil
}

// Rename 修改作者信息
func (a *Author) Rename(name, bio string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	a.Name = name
	a.Bio = strings.TrimSpace(bio)
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < MinNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
