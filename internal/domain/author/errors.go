package author

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 作者领域错误定义
var (
	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")

	// ErrNameDuplicate 作者名已存在
	ErrNameDuplicate = apperrors.New(apperrors.ErrCodeNameDuplicate, "作者名已存在")

	// ErrInvalidName 作者名过短
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "作者名至少2个字符")

	// ErrAuthorInUse 仍有图书引用该作者
	ErrAuthorInUse = apperrors.New(apperrors.ErrCodeInUse, "该作者下还有图书，不能删除")
)
