package category

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")
	ErrNameDuplicate    = apperrors.New(apperrors.ErrCodeNameDuplicate, "分类名已存在")
	ErrInvalidName      = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名至少2个字符")
	ErrCategoryInUse    = apperrors.New(apperrors.ErrCodeInUse, "该分类下还有图书，不能删除")
)
