// Package model 定义排班引擎的核心数据模型
package model

import "strings"

// 约束默认值
const (
	DefaultMaxHoursPerWeek    = 40
	DefaultMinRestHours       = 12
	DefaultMaxConsecutiveDays = 6

	// MinAllowedRestHours 法规底线，低于此值的请求直接拒绝
	MinAllowedRestHours = 8
)

// Constraint 排班硬约束配置
type Constraint struct {
	MaxHoursPerWeek    int `json:"max_hours_per_week"`
	MinRestHours       int `json:"min_rest_hours"`
	MaxConsecutiveDays int `json:"max_consecutive_days"`

	// RequiredSkills 班次类型（小写）到所需技能的映射
	// 例如 {"night": ["driving", "forklift"]}
	RequiredSkills map[string][]string `json:"required_skills,omitempty"`
}

// DefaultConstraint 返回默认约束配置
func DefaultConstraint() *Constraint {
	return &Constraint{
		MaxHoursPerWeek:    DefaultMaxHoursPerWeek,
		MinRestHours:       DefaultMinRestHours,
		MaxConsecutiveDays: DefaultMaxConsecutiveDays,
	}
}

// ApplyDefaults 为零值字段填充默认值
func (c *Constraint) ApplyDefaults() {
	if c.MaxHoursPerWeek <= 0 {
		c.MaxHoursPerWeek = DefaultMaxHoursPerWeek
	}
	if c.MinRestHours <= 0 {
		c.MinRestHours = DefaultMinRestHours
	}
	if c.MaxConsecutiveDays <= 0 {
		c.MaxConsecutiveDays = DefaultMaxConsecutiveDays
	}
}

// SkillsForSlot 返回某班次类型的技能要求，未配置时返回 nil
func (c *Constraint) SkillsForSlot(t ShiftType) []string {
	if len(c.RequiredSkills) == 0 {
		return nil
	}
	want := t.Lower()
	for key, skills := range c.RequiredSkills {
		if strings.ToLower(key) == want {
			return skills
		}
	}
	return nil
}

// HasRequiredSkills 检查是否配置了任意技能要求
func (c *Constraint) HasRequiredSkills() bool {
	for _, skills := range c.RequiredSkills {
		if len(skills) > 0 {
			return true
		}
	}
	return false
}
