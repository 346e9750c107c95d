// Package scheduler 实现混合排班优化引擎
//
// 流程：输入校验 -> 槽位生成 -> 精确求解（约束模型 + 分支定界）->
// 无可用方案时遗传算法兜底 -> 指标评估、置信度评分与建议生成。
package scheduler

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/recommend"
	"github.com/lunban/lunban/pkg/scheduler/cpmodel"
	"github.com/lunban/lunban/pkg/scheduler/slotgen"
	"github.com/lunban/lunban/pkg/scheduler/solver"
	"github.com/lunban/lunban/pkg/stats"
)

// 优化目标标签
const (
	GoalEfficiency = "efficiency"
	GoalFairness   = "fairness"
	GoalCost       = "cost"
)

// Request 一次排班优化请求
//
// 输入在单次优化期间视为只读快照，优化器不会修改它们。
type Request struct {
	Employees   []*model.Employee
	Constraint  *model.Constraint
	Period      model.Period
	OptimizeFor string
}

// Result 排班优化结果
type Result struct {
	Schedule        []model.Assignment `json:"schedule"`
	Metrics         *model.Metrics     `json:"metrics"`
	Violations      []string           `json:"constraint_violations"`
	Recommendations []string           `json:"recommendations"`
	SolverUsed      string             `json:"solver_used"`
}

// Optimizer 排班优化器
type Optimizer struct {
	exact       solver.Solver
	fallback    solver.Solver
	pool        *SolvePool
	evaluator   *stats.Evaluator
	recommender *recommend.Engine
	log         *logger.OptimizerLogger
}

// NewOptimizer 创建排班优化器
//
// exact 和 fallback 传 nil 时使用默认求解器，
// pool 传 nil 时求解在调用方协程上执行。
func NewOptimizer(exact, fallback solver.Solver, pool *SolvePool) *Optimizer {
	if exact == nil {
		exact = solver.NewExactSolver(nil)
	}
	if fallback == nil {
		fallback = solver.NewGeneticSolver(time.Now().UnixNano())
	}
	return &Optimizer{
		exact:       exact,
		fallback:    fallback,
		pool:        pool,
		evaluator:   stats.NewEvaluator(),
		recommender: recommend.NewEngine(),
		log:         logger.NewOptimizerLogger(),
	}
}

// Optimize 执行一次完整的排班优化
//
// 精确求解无可行解或超时无解时转入遗传算法兜底；
// 兜底仍产出空方案时返回空排班与违规说明，不视为错误。
func (o *Optimizer) Optimize(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	constraint, err := o.validate(req)
	if err != nil {
		return nil, err
	}

	slots := slotgen.Generate(req.Period, constraint)
	o.log.StartOptimization(req.Period.StartDate, req.Period.EndDate, len(req.Employees), len(slots))

	solveRes, err := o.runSolvers(ctx, req.Employees, slots, constraint)
	if err != nil {
		return nil, err
	}

	schedule := solveRes.Schedule
	if solveRes.Solver == solver.NameGenetic {
		o.fillConfidence(schedule, req.Employees, constraint)
	}

	metrics, violations := o.evaluator.Evaluate(schedule, req.Employees, constraint, len(slots), solveRes.UncoveredSlots, time.Since(start))
	for _, v := range violations {
		o.log.ConstraintViolation("schedule", v)
	}
	if len(schedule) == 0 {
		violations = append(violations, "两种求解策略均未产出可用排班，需要人工排班")
	}

	loads := o.evaluator.CollectLoads(schedule, req.Employees)
	recommendations := o.recommender.Generate(loads, constraint, req.OptimizeFor)

	metrics.ConstraintViolations = len(violations)
	o.log.OptimizationComplete(solveRes.Solver, time.Since(start), metrics.CoveragePercentage, metrics.FairnessScore)

	return &Result{
		Schedule:        schedule,
		Metrics:         metrics,
		Violations:      violations,
		Recommendations: recommendations,
		SolverUsed:      solveRes.Solver,
	}, nil
}

// validate 拦截无法求解的请求，不进入求解流程
func (o *Optimizer) validate(req *Request) (*model.Constraint, error) {
	if len(req.Employees) == 0 {
		return nil, apperrors.InvalidInput("employees", "员工列表不能为空")
	}
	if !req.Period.IsValid() {
		return nil, apperrors.InvalidInput("period", "排班周期不合法，要求开始日期不晚于结束日期")
	}

	constraint := req.Constraint
	if constraint == nil {
		constraint = model.DefaultConstraint()
	}
	constraint.ApplyDefaults()
	if constraint.MinRestHours < model.MinAllowedRestHours {
		return nil, apperrors.InvalidConstraint("最小休息时间不能低于 8 小时")
	}
	return constraint, nil
}

// runSolvers 先精确求解，无可用方案时遗传算法兜底
func (o *Optimizer) runSolvers(ctx context.Context, employees []*model.Employee, slots []model.ShiftSlot, constraint *model.Constraint) (*solver.Result, error) {
	exactRes, err := o.runOnPool(ctx, o.exact, employees, slots, constraint)
	switch {
	case err == nil && len(exactRes.Schedule) > 0:
		return exactRes, nil
	case err == nil:
		o.log.FallbackTriggered("精确求解产出空方案")
	case errors.Is(err, cpmodel.ErrInfeasible):
		o.log.FallbackTriggered("约束模型无可行解")
	case errors.Is(err, cpmodel.ErrTimedOut):
		o.log.FallbackTriggered("精确求解超时且无可行解")
	default:
		return nil, apperrors.SolverFault(o.exact.Name(), err)
	}

	uncovered := 0
	if exactRes != nil {
		uncovered = exactRes.UncoveredSlots
	}

	fallbackRes, err := o.runOnPool(ctx, o.fallback, employees, slots, constraint)
	if err != nil {
		return nil, apperrors.SolverFault(o.fallback.Name(), err)
	}
	if fallbackRes.UncoveredSlots < uncovered {
		fallbackRes.UncoveredSlots = uncovered
	}
	return fallbackRes, nil
}

// runOnPool 把求解任务放到工作池上执行
func (o *Optimizer) runOnPool(ctx context.Context, s solver.Solver, employees []*model.Employee, slots []model.ShiftSlot, constraint *model.Constraint) (*solver.Result, error) {
	if o.pool == nil {
		return s.Solve(ctx, employees, slots, constraint)
	}

	var res *solver.Result
	var solveErr error
	if err := o.pool.Run(ctx, func() {
		res, solveErr = s.Solve(ctx, employees, slots, constraint)
	}); err != nil {
		return nil, err
	}
	return res, solveErr
}

// fillConfidence 为兜底路径的分配逐条计算置信度
//
// 按排班顺序累计已分配工时，使负载因子反映评分时点的实际负载。
func (o *Optimizer) fillConfidence(schedule []model.Assignment, employees []*model.Employee, constraint *model.Constraint) {
	scorer := NewConfidenceScorer(constraint)
	byID := make(map[string]*model.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	hoursSoFar := make(map[string]int)
	for i := range schedule {
		a := &schedule[i]
		emp, ok := byID[a.EmployeeID]
		if !ok {
			continue
		}
		slot := model.ShiftSlot{Date: a.Day, Type: a.Slot, RequiredSkills: a.RequiredSkills}
		a.Confidence = model.Round2(scorer.Score(emp, &slot, hoursSoFar[a.EmployeeID]))
		hoursSoFar[a.EmployeeID] += model.ShiftHours
	}
}
