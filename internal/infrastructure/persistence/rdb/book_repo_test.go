package rdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
)

// dryRunDB 只生成SQL不连库，返回已执行语句的记录
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "library:library@tcp(127.0.0.1:3306)/library?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	var stmts []string
	record := func(tx *gorm.DB) {
		stmts = append(stmts, tx.Statement.SQL.String())
	}
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:record_update", record))
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:record_query", record))
	return db, &stmts
}

func TestBookRepository_StockGuards(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		run      func(r book.Repository) error
		contains []string
		wantErr  error
	}{
		{
			name: "扣减可借数要求仍有库存",
			run: func(r book.Repository) error {
				return r.DecrementAvailable(ctx, 7)
			},
			contains: []string{"UPDATE `books`", "available_copies - 1", "available_copies > 0"},
			// 不执行语句，影响行数为0
			wantErr: book.ErrNoAvailableCopies,
		},
		{
			name: "归还可借数不超过总数",
			run: func(r book.Repository) error {
				return r.IncrementAvailable(ctx, 7)
			},
			contains: []string{"UPDATE `books`", "available_copies + 1", "available_copies < total_copies"},
		},
		{
			name: "锁定图书行",
			run: func(r book.Repository) error {
				_, err := r.LockByID(ctx, 7)
				return err
			},
			contains: []string{"FROM `books`", "FOR UPDATE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, stmts := dryRunDB(t)
			repo := NewBookRepository(db)

			err := tt.run(repo)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			require.Len(t, *stmts, 1)
			for _, s := range tt.contains {
				assert.Contains(t, (*stmts)[0], s)
			}
		})
	}
}
