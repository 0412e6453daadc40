package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// bindError 参数绑定失败统一返回40900
func bindError(c *gin.Context, err error) {
	response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
}

// pathID 解析路径中的正整数ID，失败时已写出响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: 无效的"+name)
		return 0, false
	}
	return uint(id), true
}
