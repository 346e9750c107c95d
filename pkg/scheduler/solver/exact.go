package solver

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/cpmodel"
	"github.com/lunban/lunban/pkg/scheduler/feasibility"
)

// 自适应求解时限参数（秒）
const (
	baseTimeoutSeconds = 60
	maxTimeoutSeconds  = 180
)

// 精确路径的置信度范围
const (
	confidenceFloor   = 0.55
	confidenceCeiling = 0.95
)

// ExactSolver 精确求解器
//
// 将可行（员工, 槽位）组合建模为布尔决策变量，硬约束覆盖
// 恰选其一、工时上限、最小休息互斥与连续天数滑动窗口，
// 目标函数兼顾绩效、负载公平与技能匹配，交由约束引擎求解。
type ExactSolver struct {
	engine cpmodel.Engine
	log    *logger.OptimizerLogger
}

// NewExactSolver 创建精确求解器
func NewExactSolver(engine cpmodel.Engine) *ExactSolver {
	if engine == nil {
		engine = cpmodel.NewBranchAndBoundEngine()
	}
	return &ExactSolver{
		engine: engine,
		log:    logger.NewOptimizerLogger(),
	}
}

// Name 返回求解器名称
func (s *ExactSolver) Name() string {
	return NameExact
}

// AdaptiveTimeout 按问题规模计算求解时限
//
// 基础 60 秒；员工超过 20 人每人 +2 秒；槽位超过 30 个每个 +0.5 秒；
// 配置技能要求 +10 秒；最小休息低于 12 小时 +5 秒；上限 180 秒。
func AdaptiveTimeout(numEmployees, numSlots int, c *model.Constraint) time.Duration {
	timeout := float64(baseTimeoutSeconds)
	if numEmployees > 20 {
		timeout += float64(numEmployees-20) * 2
	}
	if numSlots > 30 {
		timeout += float64(numSlots-30) * 0.5
	}
	if c.HasRequiredSkills() {
		timeout += 10
	}
	if c.MinRestHours < 12 {
		timeout += 5
	}
	secs := int(timeout)
	if secs > maxTimeoutSeconds {
		secs = maxTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

// Solve 构建约束模型并求解
//
// 完全无可行解或时限内无解时返回 cpmodel 的哨兵错误，
// 由上层决定是否切换启发式兜底。
func (s *ExactSolver) Solve(ctx context.Context, employees []*model.Employee, slots []model.ShiftSlot, constraint *model.Constraint) (*Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := AdaptiveTimeout(len(employees), len(slots), constraint)
	s.log.AdaptiveTimeout(timeout, len(employees), len(slots))

	m := cpmodel.NewModel()
	feasTable := feasibility.Table(employees, slots, constraint)

	// 每个可行组合一个布尔决策变量
	type pair struct{ emp, slot int }
	varOf := make(map[pair]cpmodel.Var)
	varsByEmp := make([][]cpmodel.Var, len(employees))

	uncovered := 0
	for slotIdx := range slots {
		options := feasTable[slotIdx]
		if len(options) == 0 {
			// 无人可排的槽位不进入模型，单独计数上报
			uncovered++
			continue
		}
		group := make([]cpmodel.Var, 0, len(options))
		for _, empIdx := range options {
			v := m.NewBoolVar(fmt.Sprintf("x_e%d_s%d", empIdx, slotIdx))
			varOf[pair{empIdx, slotIdx}] = v
			varsByEmp[empIdx] = append(varsByEmp[empIdx], v)
			group = append(group, v)
		}
		// 覆盖约束：可排槽位必须恰好分配一人
		m.AddExactlyOne(group)
	}

	// 工时上限：员工上限与全局上限取较小值
	for empIdx, vars := range varsByEmp {
		if len(vars) == 0 {
			continue
		}
		coeffs := make([]int64, len(vars))
		for i := range coeffs {
			coeffs[i] = model.ShiftHours
		}
		bound := int64(employees[empIdx].WeeklyHoursCap(constraint))
		if err := m.AddLinearLE(fmt.Sprintf("max_hours_e%d", empIdx), vars, coeffs, bound); err != nil {
			return nil, err
		}
	}

	// 按日期索引槽位（slotgen 产出本身有序，这里排序只为防御外部输入）
	daySlots := make(map[string][]int)
	var days []string
	for idx := range slots {
		date := slots[idx].Date
		if _, ok := daySlots[date]; !ok {
			days = append(days, date)
		}
		daySlots[date] = append(daySlots[date], idx)
	}
	sort.Strings(days)

	// 最小休息：相邻日历日上休息不足的组合互斥
	for empIdx := range employees {
		for dayIdx := 0; dayIdx+1 < len(days); dayIdx++ {
			for _, currIdx := range daySlots[days[dayIdx]] {
				currVar, ok := varOf[pair{empIdx, currIdx}]
				if !ok {
					continue
				}
				for _, nextIdx := range daySlots[days[dayIdx+1]] {
					nextVar, ok := varOf[pair{empIdx, nextIdx}]
					if !ok {
						continue
					}
					rest := model.RestHoursBetween(slots[currIdx].Type, slots[nextIdx].Type)
					if rest < constraint.MinRestHours {
						m.AddAtMostOne(currVar, nextVar)
					}
				}
			}
		}
	}

	// 连续天数：当日是否出勤用逻辑或指示变量建模，滑动窗口限制
	maxConsecutive := constraint.MaxConsecutiveDays
	for empIdx := range employees {
		indicators := make([]cpmodel.Var, 0, len(days))
		for _, day := range days {
			var operands []cpmodel.Var
			for _, slotIdx := range daySlots[day] {
				if v, ok := varOf[pair{empIdx, slotIdx}]; ok {
					operands = append(operands, v)
				}
			}
			indicator := m.NewBoolVar(fmt.Sprintf("active_e%d_%s", empIdx, day))
			if len(operands) > 0 {
				m.AddMaxEquality(fmt.Sprintf("day_active_e%d_%s", empIdx, day), indicator, operands)
			}
			indicators = append(indicators, indicator)
		}
		for i := 0; i+maxConsecutive < len(indicators); i++ {
			window := indicators[i : i+maxConsecutive+1]
			coeffs := make([]int64, len(window))
			for j := range coeffs {
				coeffs[j] = 1
			}
			if err := m.AddLinearLE(fmt.Sprintf("consec_e%d_w%d", empIdx, i), window, coeffs, int64(maxConsecutive)); err != nil {
				return nil, err
			}
		}
	}

	// 目标：绩效得分 + 低负载公平拉动 + 技能匹配奖励
	targetLoad := float64(len(slots)) / math.Max(1, float64(len(employees)))
	for slotIdx := range slots {
		for _, empIdx := range feasTable[slotIdx] {
			emp := employees[empIdx]
			slot := &slots[slotIdx]

			perfWeight := int64(emp.PerformanceScore * 100)
			fairWeight := int64(math.Max(targetLoad-emp.PerformanceScore*2, 0) * 10)
			var skillBonus int64
			if slot.RequiresSkills() && emp.HasAnySkill(slot.RequiredSkills) {
				skillBonus = 40
			}
			m.SetObjectiveCoeff(varOf[pair{empIdx, slotIdx}], perfWeight+fairWeight+skillBonus)
		}
	}

	solution, err := s.engine.Solve(m, timeout)
	if err != nil {
		return nil, err
	}

	// 按槽位顺序产出分配，保证结果有序且确定
	schedule := make([]model.Assignment, 0, len(slots))
	for slotIdx := range slots {
		for _, empIdx := range feasTable[slotIdx] {
			v := varOf[pair{empIdx, slotIdx}]
			if !solution.Value(v) {
				continue
			}
			emp := employees[empIdx]
			confidence := model.Clamp(emp.PerformanceScore/5+0.2, confidenceFloor, confidenceCeiling)
			schedule = append(schedule, model.Assignment{
				EmployeeID:     emp.ID,
				EmployeeName:   emp.Name,
				Day:            slots[slotIdx].Date,
				Slot:           slots[slotIdx].Type,
				Confidence:     model.Round2(confidence),
				RequiredSkills: slots[slotIdx].RequiredSkills,
			})
		}
	}

	return &Result{
		Schedule:       schedule,
		UncoveredSlots: uncovered,
		Duration:       time.Since(start),
		Solver:         s.Name(),
	}, nil
}
