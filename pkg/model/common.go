// Package model 定义排班引擎的核心数据模型
package model

import (
	"strings"
	"time"
)

// DateLayout 日期统一格式
const DateLayout = "2006-01-02"

// Period 排班周期（闭区间）
type Period struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Days 返回周期覆盖的天数，日期非法时返回 0
func (p Period) Days() int {
	start, err1 := time.Parse(DateLayout, p.StartDate)
	end, err2 := time.Parse(DateLayout, p.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Dates 按升序返回周期内的全部日期
func (p Period) Dates() []string {
	start, err1 := time.Parse(DateLayout, p.StartDate)
	end, err2 := time.Parse(DateLayout, p.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return nil
	}
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// IsValid 检查周期是否合法
func (p Period) IsValid() bool {
	return p.Days() > 0
}

// WeekdayName 返回日期的小写星期名，日期非法时返回空串
func WeekdayName(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return strings.ToLower(t.Weekday().String())
}

// IsWeekendDate 检查日期是否为周末（周六或周日）
func IsWeekendDate(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekStart 返回日期所在周的起始日期（周日）
func WeekStart(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, -int(t.Weekday())).Format(DateLayout)
}
