package scheduler

import (
	apperrors "github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/model"
)

// Analysis 既有排班的分析摘要
type Analysis struct {
	TotalShifts     int `json:"total_shifts"`
	CoverageGaps    int `json:"coverage_gaps"`
	OvertimeFlags   int `json:"overtime_flags"`
	UniqueEmployees int `json:"unique_employees"`
}

// AnalyzeResult 排班分析结果
type AnalyzeResult struct {
	Analysis        *Analysis `json:"analysis"`
	Recommendations []string  `json:"recommendations"`
	EfficiencyScore float64   `json:"efficiency_score"`
}

// AnalyzeSchedule 分析一份既有排班
//
// 不重新求解，只做统计：覆盖缺口按周期应有槽位数与
// 实际班次数之差计算，加班标记为周工时超出上限的员工数。
func (o *Optimizer) AnalyzeSchedule(schedule []model.Assignment, employees []*model.Employee, constraint *model.Constraint, period model.Period) (*AnalyzeResult, error) {
	if constraint == nil {
		constraint = model.DefaultConstraint()
	}
	constraint.ApplyDefaults()
	if constraint.MinRestHours < model.MinAllowedRestHours {
		return nil, apperrors.InvalidConstraint("最小休息时间不能低于 8 小时")
	}

	totalSlots := 0
	if period.IsValid() {
		totalSlots = period.Days() * len(model.ShiftTypes)
	}
	coverageGaps := totalSlots - len(schedule)
	if coverageGaps < 0 {
		coverageGaps = 0
	}

	// 周工时超出上限的员工计为加班标记
	weeklyHours := make(map[string]map[string]int)
	for i := range schedule {
		a := &schedule[i]
		week := model.WeekStart(a.Day)
		if weeklyHours[a.EmployeeID] == nil {
			weeklyHours[a.EmployeeID] = make(map[string]int)
		}
		weeklyHours[a.EmployeeID][week] += model.ShiftHours
	}
	capByID := make(map[string]int, len(employees))
	for _, emp := range employees {
		capByID[emp.ID] = emp.WeeklyHoursCap(constraint)
	}
	overtime := 0
	for id, weeks := range weeklyHours {
		limit, ok := capByID[id]
		if !ok {
			limit = constraint.MaxHoursPerWeek
		}
		for _, hours := range weeks {
			if hours > limit {
				overtime++
				break
			}
		}
	}

	unique := make(map[string]struct{})
	for i := range schedule {
		unique[schedule[i].EmployeeID] = struct{}{}
	}

	efficiency := 1.0
	if totalSlots > 0 {
		efficiency = model.Clamp(float64(len(schedule))/float64(totalSlots), 0, 1)
	}

	loads := o.evaluator.CollectLoads(schedule, employees)
	recommendations := o.recommender.Generate(loads, constraint, GoalEfficiency)

	return &AnalyzeResult{
		Analysis: &Analysis{
			TotalShifts:     len(schedule),
			CoverageGaps:    coverageGaps,
			OvertimeFlags:   overtime,
			UniqueEmployees: len(unique),
		},
		Recommendations: recommendations,
		EfficiencyScore: model.Round3(efficiency),
	}, nil
}
