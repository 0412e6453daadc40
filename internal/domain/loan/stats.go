package loan

import (
	"time"
)

// ReadingStats 个人阅读统计
type ReadingStats struct {
	TotalRead     int `json:"total_read"`
	ReadThisMonth int `json:"read_this_month"`
}

// ComputeReadingStats 由借阅历史计算阅读统计
//
// "本月"只比较归还时间的月份与当前月份，不比较年份：去年同月归还的也会计入。
// TODO: 确认产品是否要求按年月比较，确认后改为同时比较Year()
func ComputeReadingStats(history []*Loan, now time.Time) ReadingStats {
	stats := ReadingStats{}
	for _, l := range history {
		if l.ReturnDate == nil {
			continue
		}
		stats.TotalRead++
		if l.ReturnDate.Month() == now.Month() {
			stats.ReadThisMonth++
		}
	}
	return stats
}

// Classification 个人借阅的提醒分组
type Classification struct {
	Overdue []*Loan
	DueSoon []*Loan
}

// Classify 把未归还借阅分为已逾期和即将到期
func Classify(loans []*Loan, now time.Time, window time.Duration) Classification {
	var c Classification
	for _, l := range loans {
		switch {
		case l.StatusAt(now) == StatusOverdue:
			c.Overdue = append(c.Overdue, l)
		case IsDueSoon(l.DueDate, l.ReturnDate, now, window):
			c.DueSoon = append(c.DueSoon, l)
		}
	}
	return c
}
