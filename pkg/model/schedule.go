// Package model 定义排班引擎的核心数据模型
package model

import "math"

// Assignment 一次排班分配
// 由求解器产出，产出后不可变
type Assignment struct {
	EmployeeID     string    `json:"employee_id"`
	EmployeeName   string    `json:"employee_name"`
	Day            string    `json:"day"` // YYYY-MM-DD
	Slot           ShiftType `json:"slot"`
	Confidence     float64   `json:"confidence"` // 0-1
	RequiredSkills []string  `json:"required_skills,omitempty"`
}

// IsNight 检查是否为夜班分配
func (a *Assignment) IsNight() bool {
	return a.Slot == ShiftNight
}

// IsWeekend 检查是否为周末分配
func (a *Assignment) IsWeekend() bool {
	return IsWeekendDate(a.Day)
}

// Metrics 排班优化结果指标
// 由最终方案派生，创建后不再修改
type Metrics struct {
	EfficiencyScore         float64 `json:"efficiency_score"`  // 0-1
	FairnessScore           float64 `json:"fairness_score"`    // 0-1
	ConstraintViolations    int     `json:"constraint_violations"`
	CoveragePercentage      float64 `json:"coverage_percentage"` // 0-100
	TotalHoursAssigned      int     `json:"total_hours_assigned"`
	OptimizationTimeSeconds float64 `json:"optimization_time_seconds"`
}

// Round2 保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 保留三位小数
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Clamp 将 v 限制在 [lo, hi] 区间
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
