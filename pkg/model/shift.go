// Package model 定义排班引擎的核心数据模型
package model

import "strings"

// ShiftType 班次类型
type ShiftType string

const (
	ShiftMorning   ShiftType = "MORNING"   // 早班 08:00-16:00
	ShiftAfternoon ShiftType = "AFTERNOON" // 中班 16:00-24:00
	ShiftNight     ShiftType = "NIGHT"     // 夜班 00:00-08:00
)

// ShiftHours 单个班次的固定时长（小时）
const ShiftHours = 8

// ShiftTypes 固定班次顺序（槽位生成按此顺序展开，保证确定性）
var ShiftTypes = []ShiftType{ShiftMorning, ShiftAfternoon, ShiftNight}

// shiftWindows 各班次的固定时间窗口（从午夜起算的小时数）
var shiftWindows = map[ShiftType]struct{ Start, End int }{
	ShiftMorning:   {Start: 8, End: 16},
	ShiftAfternoon: {Start: 16, End: 24},
	ShiftNight:     {Start: 0, End: 8},
}

// StartHour 返回班次开始时间（小时）
func (t ShiftType) StartHour() int {
	return shiftWindows[t].Start
}

// EndHour 返回班次结束时间（小时，24 表示午夜）
func (t ShiftType) EndHour() int {
	return shiftWindows[t].End
}

// Lower 返回小写形式（可用性与技能映射使用小写键）
func (t ShiftType) Lower() string {
	return strings.ToLower(string(t))
}

// IsValid 检查班次类型是否合法
func (t ShiftType) IsValid() bool {
	_, ok := shiftWindows[t]
	return ok
}

// ParseShiftType 从字符串解析班次类型（大小写不敏感）
func ParseShiftType(s string) (ShiftType, bool) {
	t := ShiftType(strings.ToUpper(strings.TrimSpace(s)))
	if t.IsValid() {
		return t, true
	}
	return "", false
}

// RestHoursBetween 计算相邻两个日历日的班次之间的休息时长
// curr 为前一天的班次，next 为后一天的班次，跨午夜自动换算
func RestHoursBetween(curr, next ShiftType) int {
	currEnd := curr.EndHour()
	nextStart := next.StartHour()
	if currEnd == 24 {
		return nextStart
	}
	return (24 - currEnd) + nextStart
}

// ShiftSlot 待覆盖的排班槽位（某日期某班次的一个用人需求）
type ShiftSlot struct {
	Date           string    `json:"date"` // YYYY-MM-DD
	Type           ShiftType `json:"slot"`
	RequiredSkills []string  `json:"required_skills,omitempty"`
}

// RequiresSkills 检查槽位是否配置了技能要求
func (s *ShiftSlot) RequiresSkills() bool {
	return len(s.RequiredSkills) > 0
}

// IsNight 检查是否为夜班槽位
func (s *ShiftSlot) IsNight() bool {
	return s.Type == ShiftNight
}

// IsWeekend 检查槽位是否落在周末
func (s *ShiftSlot) IsWeekend() bool {
	return IsWeekendDate(s.Date)
}
