package libraryclient

import (
	"errors"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

var reasonMessages = map[apperrors.Reason]string{
	apperrors.ReasonNotFound:         "相关记录不存在",
	apperrors.ReasonAlreadyReturned:  "这本书已经归还过了",
	apperrors.ReasonOutOfStock:       "这本书暂时没有可借的副本",
	apperrors.ReasonLoanLimitReached: "已达到同时借阅数量上限，请先归还再借",
	apperrors.ReasonDuplicateLoan:    "你已经借了这本书，请先归还",
	apperrors.ReasonUnknown:          "操作失败，请稍后重试",
}

// Message 把借还书失败转换为给用户看的提示，每种失败原因一条
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrLoanLimitReached) {
		return reasonMessages[apperrors.ReasonLoanLimitReached]
	}
	if errors.Is(err, ErrTransport) {
		return "网络异常，请检查连接后重试"
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg, ok := reasonMessages[apiErr.Reason]; ok {
			return msg
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return reasonMessages[apperrors.ReasonUnknown]
}

// ReasonOf 提取失败原因，本地限额拦截同样视为LOAN_LIMIT_REACHED
func ReasonOf(err error) apperrors.Reason {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrLoanLimitReached) {
		return apperrors.ReasonLoanLimitReached
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Reason != "" {
		return apiErr.Reason
	}
	return apperrors.ReasonUnknown
}
