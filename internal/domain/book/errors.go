package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在(借书时对应NOT_FOUND)
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在").
			WithReason(apperrors.ReasonNotFound)

	// ErrNoAvailableCopies 没有可借副本(借书时对应OUT_OF_STOCK)
	ErrNoAvailableCopies = apperrors.New(apperrors.ErrCodeOutOfStock, "该书暂无可借副本").
				WithReason(apperrors.ReasonOutOfStock)

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrInvalidISBN ISBN格式不正确
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN格式不正确")

	// ErrTitleRequired 书名为空
	ErrTitleRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrInvalidCopies 副本数非法
	ErrInvalidCopies = apperrors.New(apperrors.ErrCodeInvalidParams, "副本数必须大于等于1")

	// ErrBelowOnLoan 调整后的总数少于已借出数
	ErrBelowOnLoan = apperrors.New(apperrors.ErrCodeBusinessError, "副本总数不能少于已借出的数量")

	// ErrBookInUse 仍有借阅记录引用该图书
	ErrBookInUse = apperrors.New(apperrors.ErrCodeInUse, "该书存在借阅记录，不能删除")
)
