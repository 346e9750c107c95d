package scheduler

import (
	"github.com/lunban/lunban/pkg/model"
)

// 置信度各因子权重
const (
	confPerformanceWeight  = 0.4
	confSkillWeight        = 0.3
	confWorkloadWeight     = 0.2
	confAvailabilityWeight = 0.1
)

// ConfidenceScorer 逐分配置信度评分器
//
// 遗传算法兜底路径使用：该路径不产生单一可行性凭证，
// 置信度由绩效、技能匹配与工时余量加权得出。
type ConfidenceScorer struct {
	constraint *model.Constraint
}

// NewConfidenceScorer 创建置信度评分器
func NewConfidenceScorer(constraint *model.Constraint) *ConfidenceScorer {
	return &ConfidenceScorer{constraint: constraint}
}

// Score 计算单个分配的置信度，结果落在 [0.5, 1.0]
//
// hoursAssigned 为该员工在本方案中已累计的工时（含当前班次）。
func (s *ConfidenceScorer) Score(emp *model.Employee, slot *model.ShiftSlot, hoursAssigned int) float64 {
	// 绩效因子：0-5 分线性映射到 0.4-1.0
	perfFactor := 0.4 + (emp.PerformanceScore/5.0)*0.6

	// 技能因子：全部要求技能具备为 1.0，否则 0.6
	skillFactor := 1.0
	if slot.RequiresSkills() && !emp.HasAllSkills(slot.RequiredSkills) {
		skillFactor = 0.6
	}

	// 工时余量因子：负载越接近上限，置信度越低
	workloadFactor := s.workloadFactor(emp, hoursAssigned)

	// 可用性因子：不可行组合已被前置过滤，恒为 1.0
	availFactor := 1.0

	score := perfFactor*confPerformanceWeight +
		skillFactor*confSkillWeight +
		workloadFactor*confWorkloadWeight +
		availFactor*confAvailabilityWeight

	return model.Clamp(score, 0.5, 1.0)
}

// workloadFactor 按已分配工时占上限的比例分档
func (s *ConfidenceScorer) workloadFactor(emp *model.Employee, hoursAssigned int) float64 {
	limit := emp.WeeklyHoursCap(s.constraint)
	if limit <= 0 {
		return 0.5
	}
	ratio := float64(hoursAssigned) / float64(limit)
	switch {
	case ratio <= 0.75:
		return 1.0
	case ratio <= 0.90:
		return 0.85
	case ratio <= 1.0:
		return 0.7
	default:
		return 0.5
	}
}
