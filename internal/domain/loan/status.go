package loan

import (
	"math"
	"strings"
	"time"
)

// Status 借阅的展示状态
// 服务端报表、接口DTO和Go客户端都只通过本文件的函数计算状态
type Status string

const (
	StatusActive   Status = "active"
	StatusOverdue  Status = "overdue"
	StatusReturned Status = "returned"
)

const day = 24 * time.Hour

// DeriveStatus 由(到期日, 归还时间, 当前时间)计算状态
//   - returnDate非空：returned（终态）
//   - dueDate < now：overdue
//   - 否则：active
func DeriveStatus(dueDate time.Time, returnDate *time.Time, now time.Time) Status {
	if returnDate != nil {
		return StatusReturned
	}
	if dueDate.Before(now) {
		return StatusOverdue
	}
	return StatusActive
}

// DaysRemaining 距到期的天数（向上取整），已过期时<=0
func DaysRemaining(dueDate, now time.Time) int {
	return int(math.Ceil(float64(dueDate.Sub(now)) / float64(day)))
}

// DaysOverdue 逾期天数（向上取整），未逾期为0
func DaysOverdue(dueDate, now time.Time) int {
	if !dueDate.Before(now) {
		return 0
	}
	return int(math.Ceil(float64(now.Sub(dueDate)) / float64(day)))
}

// IsDueSoon 即将到期：未归还、未逾期，且剩余天数在(0, window天]之内
func IsDueSoon(dueDate time.Time, returnDate *time.Time, now time.Time, window time.Duration) bool {
	if DeriveStatus(dueDate, returnDate, now) != StatusActive {
		return false
	}
	days := DaysRemaining(dueDate, now)
	return days > 0 && days <= int(window/day)
}

// StatusFilter 管理后台的状态筛选
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"   // 未归还且未逾期
	FilterOverdue  StatusFilter = "overdue"  // 未归还且已逾期
	FilterReturned StatusFilter = "returned" // 已归还
)

// ParseStatusFilter 解析筛选参数，空串为all
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterOverdue, FilterReturned:
		return f, nil
	default:
		return "", ErrInvalidStatusFilter
	}
}
