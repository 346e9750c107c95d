// Package stats 提供排班结果的统计评估功能
package stats

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/lunban/lunban/pkg/model"
)

// 公平性三因子权重
const (
	hoursFairnessWeight   = 0.5
	nightFairnessWeight   = 0.3
	weekendFairnessWeight = 0.2
)

// softViolationRatio 周工时达到上限该比例时给出软性告警
const softViolationRatio = 0.9

// weekendSpreadTolerance 周末班次数超过平均值该阈值时告警
const weekendSpreadTolerance = 2.0

// EmployeeLoad 单个员工的负载统计
type EmployeeLoad struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	TotalHours    float64 `json:"total_hours"`
	ShiftCount    int     `json:"shift_count"`
	NightShifts   int     `json:"night_shifts"`
	WeekendShifts int     `json:"weekend_shifts"`
}

// Evaluator 排班指标评估器
//
// 覆盖率、效率、公平性与违规清单都从最终排班计算，
// 与求解路径无关。
type Evaluator struct{}

// NewEvaluator 创建评估器
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate 计算排班指标与违规清单
//
// totalSlots 为本次排班的总槽位数，uncovered 为无可行员工的槽位数。
func (e *Evaluator) Evaluate(schedule []model.Assignment, employees []*model.Employee, constraint *model.Constraint, totalSlots, uncovered int, duration time.Duration) (*model.Metrics, []string) {
	loads := e.CollectLoads(schedule, employees)
	violations := e.checkViolations(schedule, employees, constraint, loads, uncovered)

	coverage := 0.0
	if totalSlots > 0 {
		coverage = float64(len(schedule)) / float64(totalSlots) * 100
	}
	efficiency := model.Clamp(coverage/100-0.05*float64(uncovered), 0, 1)
	fairness := e.fairnessScore(loads, constraint)

	totalHours := 0
	for _, load := range loads {
		totalHours += int(load.TotalHours)
	}

	return &model.Metrics{
		EfficiencyScore:         model.Round3(efficiency),
		FairnessScore:           model.Round3(fairness),
		ConstraintViolations:    len(violations),
		CoveragePercentage:      model.Round2(coverage),
		TotalHoursAssigned:      totalHours,
		OptimizationTimeSeconds: model.Round3(duration.Seconds()),
	}, violations
}

// CollectLoads 汇总每个员工的工时与班次分布
//
// 未出现在排班中的员工也计入，负载为零，
// 保证公平性统计覆盖整个花名册。
func (e *Evaluator) CollectLoads(schedule []model.Assignment, employees []*model.Employee) []*EmployeeLoad {
	byID := make(map[string]*EmployeeLoad, len(employees))
	order := make([]string, 0, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = &EmployeeLoad{EmployeeID: emp.ID, EmployeeName: emp.Name}
		order = append(order, emp.ID)
	}

	for i := range schedule {
		a := &schedule[i]
		load, ok := byID[a.EmployeeID]
		if !ok {
			load = &EmployeeLoad{EmployeeID: a.EmployeeID, EmployeeName: a.EmployeeName}
			byID[a.EmployeeID] = load
			order = append(order, a.EmployeeID)
		}
		load.TotalHours += model.ShiftHours
		load.ShiftCount++
		if a.IsNight() {
			load.NightShifts++
		}
		if a.IsWeekend() {
			load.WeekendShifts++
		}
	}

	loads := make([]*EmployeeLoad, 0, len(order))
	for _, id := range order {
		loads = append(loads, byID[id])
	}
	return loads
}

// fairnessScore 工时/夜班/周末三因子加权均衡度
func (e *Evaluator) fairnessScore(loads []*EmployeeLoad, constraint *model.Constraint) float64 {
	if len(loads) == 0 {
		return 1
	}
	hours := make([]float64, len(loads))
	nights := make([]float64, len(loads))
	weekends := make([]float64, len(loads))
	for i, load := range loads {
		hours[i] = load.TotalHours
		nights[i] = float64(load.NightShifts)
		weekends[i] = float64(load.WeekendShifts)
	}

	norm := float64(constraint.MaxHoursPerWeek)
	if norm < 1 {
		norm = 1
	}
	score := hoursFairnessWeight*evennessScore(hours, norm) +
		nightFairnessWeight*evennessScore(nights, stat.Mean(nights, nil)) +
		weekendFairnessWeight*evennessScore(weekends, stat.Mean(weekends, nil))
	return model.Clamp(score, 0, 1)
}

// evennessScore 均衡度 = 1 - 总体标准差/归一基准，下限 0
func evennessScore(xs []float64, norm float64) float64 {
	if len(xs) < 2 {
		return 1
	}
	sd := stat.PopStdDev(xs, nil)
	if sd == 0 {
		return 1
	}
	if norm <= 0 {
		norm = 1
	}
	v := 1 - sd/norm
	if v < 0 {
		return 0
	}
	return v
}

// checkViolations 生成违规与告警清单
//
// 周工时按周日起始的自然周分桶，超过 min(员工上限, 全局上限)
// 为硬性违规，达到上限 90% 为软性告警；周末班次数超过
// 花名册平均值 2 次以上为分布告警；无可行员工的槽位
// 始终计入违规。
func (e *Evaluator) checkViolations(schedule []model.Assignment, employees []*model.Employee, constraint *model.Constraint, loads []*EmployeeLoad, uncovered int) []string {
	violations := make([]string, 0)

	capByID := make(map[string]int, len(employees))
	nameByID := make(map[string]string, len(employees))
	for _, emp := range employees {
		capByID[emp.ID] = emp.WeeklyHoursCap(constraint)
		nameByID[emp.ID] = emp.Name
	}

	// 员工 -> 周起始 -> 工时
	weeklyHours := make(map[string]map[string]int)
	for i := range schedule {
		a := &schedule[i]
		week := model.WeekStart(a.Day)
		if weeklyHours[a.EmployeeID] == nil {
			weeklyHours[a.EmployeeID] = make(map[string]int)
		}
		weeklyHours[a.EmployeeID][week] += model.ShiftHours
	}

	ids := make([]string, 0, len(weeklyHours))
	for id := range weeklyHours {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		limit, ok := capByID[id]
		if !ok {
			limit = constraint.MaxHoursPerWeek
		}
		name := nameByID[id]
		if name == "" {
			name = id
		}

		weeks := make([]string, 0, len(weeklyHours[id]))
		for week := range weeklyHours[id] {
			weeks = append(weeks, week)
		}
		sort.Strings(weeks)

		for _, week := range weeks {
			hours := weeklyHours[id][week]
			switch {
			case hours > limit:
				violations = append(violations,
					fmt.Sprintf("员工 %s 在 %s 起的一周工时 %d 小时，超过上限 %d 小时", name, week, hours, limit))
			case float64(hours) >= float64(limit)*softViolationRatio:
				violations = append(violations,
					fmt.Sprintf("员工 %s 在 %s 起的一周工时 %d 小时，已接近上限 %d 小时", name, week, hours, limit))
			}
		}
	}

	// 周末班次分布告警
	var weekendTotal float64
	for _, load := range loads {
		weekendTotal += float64(load.WeekendShifts)
	}
	if len(loads) > 0 {
		weekendAvg := weekendTotal / float64(len(loads))
		for _, load := range loads {
			if float64(load.WeekendShifts) > weekendAvg+weekendSpreadTolerance {
				violations = append(violations,
					fmt.Sprintf("员工 %s 的周末班次数 %d 次，明显高于平均值 %.1f 次", load.EmployeeName, load.WeekendShifts, weekendAvg))
			}
		}
	}

	if uncovered > 0 {
		violations = append(violations,
			fmt.Sprintf("有 %d 个班次槽位没有可行员工，需要人工安排", uncovered))
	}

	return violations
}
