package rdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// reportRepository 管理后台报表读模型
// 报表是多表联查+动态筛选，用goqu按方言生成SQL，sqlx扫描结果；
// 与GORM共用同一个连接池，不参与写事务
type reportRepository struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

// NewReportRepository 创建报表仓储，driver为mysql或postgres
func NewReportRepository(db *gorm.DB, driver string) (loan.ReportRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	return &reportRepository{
		db:      sqlx.NewDb(sqlDB, driver),
		dialect: goqu.Dialect(driver),
	}, nil
}

// recordRow 报表行，会员资料缺失时姓名为NULL
type recordRow struct {
	LoanID      uint       `db:"loan_id"`
	BookID      uint       `db:"book_id"`
	BookTitle   string     `db:"book_title"`
	BookISBN    string     `db:"book_isbn"`
	AuthorName  string     `db:"author_name"`
	UserID      uint       `db:"user_id"`
	MemberName  *string    `db:"member_name"`
	MemberEmail string     `db:"member_email"`
	BorrowDate  time.Time  `db:"borrow_date"`
	DueDate     time.Time  `db:"due_date"`
	ReturnDate  *time.Time `db:"return_date"`
}

func (r *reportRepository) ListLoans(ctx context.Context, filter loan.ReportFilter) ([]*loan.Record, int64, error) {
	countSQL, countArgs, err := buildLoanCountQuery(r.dialect, filter)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "生成报表SQL失败")
	}
	var total int64
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, apperrors.Wrap(err, "统计借阅记录失败")
	}

	query, args, err := buildLoanQuery(r.dialect, filter)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "生成报表SQL失败")
	}
	var rows []recordRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅报表失败")
	}

	records := make([]*loan.Record, len(rows))
	for i, row := range rows {
		rec := &loan.Record{
			LoanID:      row.LoanID,
			BookID:      row.BookID,
			BookTitle:   row.BookTitle,
			BookISBN:    row.BookISBN,
			AuthorName:  row.AuthorName,
			UserID:      row.UserID,
			MemberEmail: row.MemberEmail,
			BorrowDate:  row.BorrowDate,
			DueDate:     row.DueDate,
			ReturnDate:  row.ReturnDate,
		}
		if row.MemberName != nil {
			rec.MemberName = *row.MemberName
		}
		records[i] = rec
	}
	return records, total, nil
}

// Stats 概览统计，逾期口径与DeriveStatus相同
func (r *reportRepository) Stats(ctx context.Context, now time.Time) (*loan.LibraryStats, error) {
	counts := []struct {
		dest  *int64
		table string
		where []exp.Expression
	}{
		{table: "books"},
		{table: "loans", where: []exp.Expression{goqu.C("return_date").IsNull()}},
		{table: "loans", where: []exp.Expression{goqu.C("return_date").IsNull(), goqu.C("due_date").Lt(now)}},
		{table: "profiles", where: []exp.Expression{goqu.C("role").Eq("member")}},
	}

	stats := &loan.LibraryStats{}
	counts[0].dest = &stats.TotalBooks
	counts[1].dest = &stats.ActiveLoans
	counts[2].dest = &stats.OverdueLoans
	counts[3].dest = &stats.TotalMembers

	for _, c := range counts {
		query, args, err := r.dialect.From(c.table).
			Prepared(true).
			Select(goqu.COUNT(goqu.Star())).
			Where(c.where...).
			ToSQL()
		if err != nil {
			return nil, apperrors.Wrap(err, "生成统计SQL失败")
		}
		if err := r.db.GetContext(ctx, c.dest, query, args...); err != nil {
			return nil, apperrors.Wrapf(err, "统计%s失败", c.table)
		}
	}
	return stats, nil
}

// loanReportBase 借阅 + 图书 + 作者 + 会员，带筛选条件
func loanReportBase(d goqu.DialectWrapper, filter loan.ReportFilter) *goqu.SelectDataset {
	ds := d.From(goqu.T("loans").As("l")).
		Prepared(true).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Join(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("l.user_id")))).
		LeftJoin(goqu.T("profiles").As("p"), goqu.On(goqu.I("p.user_id").Eq(goqu.I("l.user_id"))))

	switch filter.Status {
	case loan.FilterActive:
		ds = ds.Where(goqu.I("l.return_date").IsNull(), goqu.I("l.due_date").Gte(filter.Now))
	case loan.FilterOverdue:
		ds = ds.Where(goqu.I("l.return_date").IsNull(), goqu.I("l.due_date").Lt(filter.Now))
	case loan.FilterReturned:
		ds = ds.Where(goqu.I("l.return_date").IsNotNull())
	}

	if kw := strings.TrimSpace(filter.Search); kw != "" {
		pattern := likePattern(kw)
		ds = ds.Where(goqu.Or(
			goqu.L("LOWER(b.title) LIKE ?", pattern),
			goqu.L("LOWER(p.full_name) LIKE ?", pattern),
			goqu.L("LOWER(a.name) LIKE ?", pattern),
		))
	}
	return ds
}

func buildLoanCountQuery(d goqu.DialectWrapper, filter loan.ReportFilter) (string, []interface{}, error) {
	return loanReportBase(d, filter).Select(goqu.COUNT(goqu.I("l.id"))).ToSQL()
}

// buildLoanQuery 按借出时间倒序分页
func buildLoanQuery(d goqu.DialectWrapper, filter loan.ReportFilter) (string, []interface{}, error) {
	offset := (filter.Page - 1) * filter.PageSize
	if offset < 0 {
		offset = 0
	}
	return loanReportBase(d, filter).
		Select(
			goqu.I("l.id").As("loan_id"),
			goqu.I("l.book_id").As("book_id"),
			goqu.I("b.title").As("book_title"),
			goqu.I("b.isbn").As("book_isbn"),
			goqu.I("a.name").As("author_name"),
			goqu.I("l.user_id").As("user_id"),
			goqu.I("p.full_name").As("member_name"),
			goqu.I("u.email").As("member_email"),
			goqu.I("l.borrow_date").As("borrow_date"),
			goqu.I("l.due_date").As("due_date"),
			goqu.I("l.return_date").As("return_date"),
		).
		Order(goqu.I("l.borrow_date").Desc(), goqu.I("l.id").Desc()).
		Limit(uint(filter.PageSize)).
		Offset(uint(offset)).
		ToSQL()
}
