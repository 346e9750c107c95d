// Package model 定义排班引擎的核心数据模型
package model

import "strings"

// Employee 员工
// 一次优化调用期间视为只读快照
type Employee struct {
	ID               string   `json:"id" db:"id"`
	Name             string   `json:"name" db:"name"`
	Skills           []string `json:"skills" db:"skills"`
	PerformanceScore float64  `json:"performance_score" db:"performance_score"` // 0-5
	MaxHoursPerWeek  int      `json:"max_hours_per_week" db:"max_hours_per_week"`

	// 可用性：星期名（小写）到可上班次（小写）的映射
	// 例如 {"monday": ["morning", "afternoon"]}
	Availability map[string][]string `json:"availability" db:"availability"`
}

// HasSkill 检查员工是否具备某技能
func (e *Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// HasAnySkill 检查员工技能集与给定技能集是否有交集
func (e *Employee) HasAnySkill(skills []string) bool {
	for _, s := range skills {
		if e.HasSkill(s) {
			return true
		}
	}
	return false
}

// HasAllSkills 检查员工是否具备全部给定技能
func (e *Employee) HasAllSkills(skills []string) bool {
	for _, s := range skills {
		if !e.HasSkill(s) {
			return false
		}
	}
	return true
}

// AvailableSlots 返回员工在某星期（小写星期名）的可上班次，统一转为小写
func (e *Employee) AvailableSlots(weekday string) []string {
	weekday = strings.ToLower(weekday)
	for day, slots := range e.Availability {
		if strings.ToLower(day) != weekday {
			continue
		}
		result := make([]string, len(slots))
		for i, s := range slots {
			result[i] = strings.ToLower(s)
		}
		return result
	}
	return nil
}

// IsAvailableOn 检查员工在某星期名是否可上某班次
func (e *Employee) IsAvailableOn(weekday string, t ShiftType) bool {
	want := t.Lower()
	for _, s := range e.AvailableSlots(weekday) {
		if s == want {
			return true
		}
	}
	return false
}

// WeeklyHoursCap 返回员工生效的周工时上限（员工上限与全局上限取较小值）
func (e *Employee) WeeklyHoursCap(c *Constraint) int {
	if e.MaxHoursPerWeek < c.MaxHoursPerWeek {
		return e.MaxHoursPerWeek
	}
	return c.MaxHoursPerWeek
}
