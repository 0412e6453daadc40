package rdb

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// MySQL错误码
const (
	mysqlDuplicateEntry   = 1062 // Duplicate entry 'xxx' for key 'yyy'
	mysqlRowIsReferenced  = 1451 // Cannot delete or update a parent row
	mysqlNoReferencedRow  = 1452 // Cannot add or update a child row
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isDuplicateError 唯一索引冲突
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// isForeignKeyError 外键约束冲突(删除被引用的行，或引用不存在的行)
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlRowIsReferenced || myErr.Number == mysqlNoReferencedRow
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
