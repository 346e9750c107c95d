// Package recommend 根据排班结果生成改进建议
package recommend

import (
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/stats"
)

// 分布离散度阈值：最多与最少之差超过该值时给出建议
const (
	nightSpreadThreshold   = 3
	weekendSpreadThreshold = 2
)

// Engine 规则式建议引擎
//
// 建议基于固定阈值规则生成，不依赖学习模型。
type Engine struct{}

// NewEngine 创建建议引擎
func NewEngine() *Engine {
	return &Engine{}
}

// Generate 生成建议列表
//
// goal 为优化目标标签（efficiency/fairness/cost），仅影响建议文本。
func (e *Engine) Generate(loads []*stats.EmployeeLoad, constraint *model.Constraint, goal string) []string {
	recommendations := []string{
		"保持班次之间的休息间隔，避免连续高强度排班",
		"安排绩效较高的员工带教绩效较低的员工",
	}

	if goal == "fairness" {
		recommendations = append(recommendations, "当前以公平性为优化目标，建议定期轮换夜班和周末班")
	}
	if len(constraint.RequiredSkills) > 0 {
		recommendations = append(recommendations, "部分班次配置了技能要求，建议安排跨技能培训以扩大可排班人选")
	}

	minNight, maxNight := spread(loads, func(l *stats.EmployeeLoad) int { return l.NightShifts })
	minWeekend, maxWeekend := spread(loads, func(l *stats.EmployeeLoad) int { return l.WeekendShifts })

	weekendTotal := 0
	for _, load := range loads {
		weekendTotal += load.WeekendShifts
	}
	if weekendTotal == 0 && len(loads) > 0 {
		recommendations = append(recommendations, "本期没有任何周末班次被覆盖，请确认周末人力安排")
	}

	if maxNight-minNight > nightSpreadThreshold {
		recommendations = append(recommendations, "夜班分配差距较大，建议在下个周期向夜班较少的员工倾斜")
	}
	if maxWeekend-minWeekend > weekendSpreadThreshold {
		recommendations = append(recommendations, "周末班分配差距较大，建议轮换周末值班人员")
	}

	return recommendations
}

// spread 返回负载列表上某项计数的最小值与最大值
func spread(loads []*stats.EmployeeLoad, pick func(*stats.EmployeeLoad) int) (int, int) {
	if len(loads) == 0 {
		return 0, 0
	}
	min, max := pick(loads[0]), pick(loads[0])
	for _, load := range loads[1:] {
		v := pick(load)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
