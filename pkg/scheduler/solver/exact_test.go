package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/cpmodel"
	"github.com/lunban/lunban/pkg/scheduler/slotgen"
)

func TestAdaptiveTimeout(t *testing.T) {
	tests := []struct {
		name      string
		employees int
		slots     int
		c         *model.Constraint
		expected  time.Duration
	}{
		{
			"小规模走基础时限",
			10, 21,
			&model.Constraint{MaxHoursPerWeek: 40, MinRestHours: 12, MaxConsecutiveDays: 6},
			60 * time.Second,
		},
		{
			"规模与配置叠加",
			25, 40,
			&model.Constraint{
				MaxHoursPerWeek: 40, MinRestHours: 10, MaxConsecutiveDays: 6,
				RequiredSkills: map[string][]string{"night": {"security"}},
			},
			// 60 + 2x5 + 0.5x10 + 10 + 5
			90 * time.Second,
		},
		{
			"超大规模封顶",
			200, 900,
			&model.Constraint{MaxHoursPerWeek: 40, MinRestHours: 12, MaxConsecutiveDays: 6},
			180 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdaptiveTimeout(tt.employees, tt.slots, tt.c); got != tt.expected {
				t.Errorf("AdaptiveTimeout() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestExactSolver_SingleEmployeeWeekdayMornings(t *testing.T) {
	emp := &model.Employee{
		ID:               "e1",
		Name:             "张三",
		PerformanceScore: 4.0,
		MaxHoursPerWeek:  40,
		Availability: map[string][]string{
			"monday":    {"MORNING"},
			"tuesday":   {"MORNING"},
			"wednesday": {"MORNING"},
			"thursday":  {"MORNING"},
			"friday":    {"MORNING"},
		},
	}
	constraint := model.DefaultConstraint()
	period := model.Period{StartDate: "2026-01-05", EndDate: "2026-01-11"}
	slots := slotgen.Generate(period, constraint)

	res, err := NewExactSolver(nil).Solve(context.Background(), []*model.Employee{emp}, slots, constraint)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	if len(res.Schedule) != 5 {
		t.Fatalf("分配数 = %d, expected 5", len(res.Schedule))
	}
	for _, a := range res.Schedule {
		if a.Slot != model.ShiftMorning {
			t.Errorf("出现非早班分配: %s %s", a.Day, a.Slot)
		}
		if a.EmployeeID != "e1" {
			t.Errorf("分配给了未知员工: %s", a.EmployeeID)
		}
		// 精确路径置信度 = clamp(4.0/5 + 0.2, 0.55, 0.95)
		if a.Confidence != 0.95 {
			t.Errorf("置信度 = %v, expected 0.95", a.Confidence)
		}
	}
	// 总槽位 21，可排 5，其余无人可排
	if res.UncoveredSlots != 16 {
		t.Errorf("UncoveredSlots = %d, expected 16", res.UncoveredSlots)
	}
	if res.Solver != NameExact {
		t.Errorf("Solver = %s, expected %s", res.Solver, NameExact)
	}
}

func TestExactSolver_RestConflictInfeasible(t *testing.T) {
	// 周一只能中班，周二只能夜班，中班到次日夜班休息为 0
	emp := &model.Employee{
		ID: "e1", Name: "李四", PerformanceScore: 3, MaxHoursPerWeek: 40,
		Availability: map[string][]string{
			"monday":  {"AFTERNOON"},
			"tuesday": {"NIGHT"},
		},
	}
	constraint := model.DefaultConstraint()
	period := model.Period{StartDate: "2026-01-05", EndDate: "2026-01-06"}
	slots := slotgen.Generate(period, constraint)

	_, err := NewExactSolver(nil).Solve(context.Background(), []*model.Employee{emp}, slots, constraint)
	if !errors.Is(err, cpmodel.ErrInfeasible) {
		t.Errorf("Solve() error = %v, expected ErrInfeasible", err)
	}
}

func TestExactSolver_ConsecutiveDaysInfeasible(t *testing.T) {
	emp := &model.Employee{
		ID: "e1", Name: "王五", PerformanceScore: 3, MaxHoursPerWeek: 80,
		Availability: map[string][]string{
			"monday":    {"MORNING"},
			"tuesday":   {"MORNING"},
			"wednesday": {"MORNING"},
		},
	}
	constraint := &model.Constraint{MaxHoursPerWeek: 80, MinRestHours: 12, MaxConsecutiveDays: 2}
	period := model.Period{StartDate: "2026-01-05", EndDate: "2026-01-07"}
	slots := slotgen.Generate(period, constraint)

	_, err := NewExactSolver(nil).Solve(context.Background(), []*model.Employee{emp}, slots, constraint)
	if !errors.Is(err, cpmodel.ErrInfeasible) {
		t.Errorf("Solve() error = %v, expected ErrInfeasible", err)
	}
}

func TestExactSolver_UncoveredSkillSlot(t *testing.T) {
	emp := &model.Employee{
		ID: "e1", Name: "赵六", PerformanceScore: 3, MaxHoursPerWeek: 40,
		Skills: []string{"nursing"},
		Availability: map[string][]string{
			"monday": {"MORNING", "NIGHT"},
		},
	}
	constraint := &model.Constraint{
		MaxHoursPerWeek: 40, MinRestHours: 12, MaxConsecutiveDays: 6,
		RequiredSkills: map[string][]string{"night": {"security"}},
	}
	period := model.Period{StartDate: "2026-01-05", EndDate: "2026-01-05"}
	slots := slotgen.Generate(period, constraint)

	res, err := NewExactSolver(nil).Solve(context.Background(), []*model.Employee{emp}, slots, constraint)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	// 夜班因技能不符无人可排，中班因不可用无人可排
	if res.UncoveredSlots != 2 {
		t.Errorf("UncoveredSlots = %d, expected 2", res.UncoveredSlots)
	}
	if len(res.Schedule) != 1 || res.Schedule[0].Slot != model.ShiftMorning {
		t.Errorf("应只产出周一早班分配, got %v", res.Schedule)
	}
}

func TestExactSolver_PrefersHigherPerformer(t *testing.T) {
	low := &model.Employee{
		ID: "low", Name: "低绩效", PerformanceScore: 2, MaxHoursPerWeek: 40,
		Availability: map[string][]string{"monday": {"MORNING"}},
	}
	high := &model.Employee{
		ID: "high", Name: "高绩效", PerformanceScore: 5, MaxHoursPerWeek: 40,
		Availability: map[string][]string{"monday": {"MORNING"}},
	}
	constraint := model.DefaultConstraint()
	period := model.Period{StartDate: "2026-01-05", EndDate: "2026-01-05"}
	slots := slotgen.Generate(period, constraint)

	res, err := NewExactSolver(nil).Solve(context.Background(), []*model.Employee{low, high}, slots, constraint)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if len(res.Schedule) != 1 {
		t.Fatalf("分配数 = %d, expected 1", len(res.Schedule))
	}
	if res.Schedule[0].EmployeeID != "high" {
		t.Errorf("应优先分配高绩效员工, got %s", res.Schedule[0].EmployeeID)
	}
}
