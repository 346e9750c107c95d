// Package validator 提供约束配置的独立校验
package validator

import (
	"fmt"

	"github.com/lunban/lunban/pkg/model"
)

// 告警阈值：周工时上限超出/低于该范围时给出提示
const (
	highHoursWarning = 60
	lowHoursWarning  = 24
)

// Result 约束校验结果
type Result struct {
	Valid          bool     `json:"valid"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	Recommendation string   `json:"recommendation"`
}

// ValidateConstraint 校验约束配置
//
// 最小休息小于 8 小时为硬性错误，周工时上限过高或过低
// 只作为告警给出，不阻止排班。
func ValidateConstraint(c *model.Constraint) *Result {
	result := &Result{
		Valid:    true,
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	if c.MinRestHours < model.MinAllowedRestHours {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("最小休息时间 %d 小时低于允许下限 %d 小时", c.MinRestHours, model.MinAllowedRestHours))
	}

	if c.MaxHoursPerWeek > highHoursWarning {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("周工时上限 %d 小时偏高，可能影响员工健康", c.MaxHoursPerWeek))
	}
	if c.MaxHoursPerWeek > 0 && c.MaxHoursPerWeek < lowHoursWarning {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("周工时上限 %d 小时偏低，可能导致大量班次无人可排", c.MaxHoursPerWeek))
	}

	if result.Valid {
		result.Recommendation = "约束配置可用于排班优化"
	} else {
		result.Recommendation = "请修正错误后再提交排班请求"
	}
	return result
}
