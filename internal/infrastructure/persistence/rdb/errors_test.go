package rdb

import (
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestDriverErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		duplicate bool
		foreign   bool
	}{
		{name: "nil", err: nil},
		{name: "mysql唯一冲突", err: &mysqldriver.MySQLError{Number: 1062}, duplicate: true},
		{name: "mysql删除被引用行", err: &mysqldriver.MySQLError{Number: 1451}, foreign: true},
		{name: "mysql引用不存在", err: &mysqldriver.MySQLError{Number: 1452}, foreign: true},
		{name: "mysql其他错误", err: &mysqldriver.MySQLError{Number: 1205}},
		{name: "pg唯一冲突(被包装)", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), duplicate: true},
		{name: "pg外键冲突", err: &pgconn.PgError{Code: "23503"}, foreign: true},
		{name: "gorm翻译后的错误", err: gorm.ErrDuplicatedKey, duplicate: true},
		{name: "普通错误", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.duplicate, isDuplicateError(tt.err))
			assert.Equal(t, tt.foreign, isForeignKeyError(tt.err))
		})
	}
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
	}{
		{"Go", "%go%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`C:\dir`, `%c:\\dir%`},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, likePattern(tt.keyword))
		})
	}
}
