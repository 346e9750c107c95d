package cpmodel

import (
	"errors"
	"testing"
	"time"
)

func TestEngine_PicksHighestObjective(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	c := m.NewBoolVar("c")
	m.AddExactlyOne([]Var{a, b, c})
	m.SetObjectiveCoeff(a, 10)
	m.SetObjectiveCoeff(b, 30)
	m.SetObjectiveCoeff(c, 20)

	sol, err := NewBranchAndBoundEngine().Solve(m, time.Second)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if !sol.Value(b) || sol.Value(a) || sol.Value(c) {
		t.Errorf("应选中目标系数最大的变量 b: a=%v b=%v c=%v", sol.Value(a), sol.Value(b), sol.Value(c))
	}
	if sol.Objective != 30 {
		t.Errorf("Objective = %d, expected 30", sol.Objective)
	}
	if !sol.Optimal {
		t.Error("小模型应在时限内证明最优")
	}
}

func TestEngine_MutualExclusion(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	c := m.NewBoolVar("c")
	d := m.NewBoolVar("d")
	m.AddExactlyOne([]Var{a, b})
	m.AddExactlyOne([]Var{c, d})
	// a 与 c 同取会有休息冲突式的互斥
	m.AddAtMostOne(a, c)
	m.SetObjectiveCoeff(a, 100)
	m.SetObjectiveCoeff(b, 1)
	m.SetObjectiveCoeff(c, 100)
	m.SetObjectiveCoeff(d, 1)

	sol, err := NewBranchAndBoundEngine().Solve(m, time.Second)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.Value(a) && sol.Value(c) {
		t.Error("互斥的 a 与 c 被同时选中")
	}
	// 最优解取一个 100 加一个 1
	if sol.Objective != 101 {
		t.Errorf("Objective = %d, expected 101", sol.Objective)
	}
}

func TestEngine_Infeasible(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddExactlyOne([]Var{a})
	m.AddExactlyOne([]Var{b})
	m.AddAtMostOne(a, b)

	_, err := NewBranchAndBoundEngine().Solve(m, time.Second)
	if !errors.Is(err, ErrInfeasible) {
		t.Errorf("Solve() error = %v, expected ErrInfeasible", err)
	}
}

func TestEngine_LinearBound(t *testing.T) {
	m := NewModel()
	// 三个槽位组，同一人全可排，工时上限只允许两个
	var vars []Var
	for i := 0; i < 3; i++ {
		v := m.NewBoolVar("x")
		skip := m.NewBoolVar("skip")
		m.AddExactlyOne([]Var{v, skip})
		m.SetObjectiveCoeff(v, 10)
		vars = append(vars, v)
	}
	if err := m.AddLinearLE("hours", vars, []int64{8, 8, 8}, 16); err != nil {
		t.Fatalf("AddLinearLE() error = %v", err)
	}

	sol, err := NewBranchAndBoundEngine().Solve(m, time.Second)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	selected := 0
	for _, v := range vars {
		if sol.Value(v) {
			selected++
		}
	}
	if selected != 2 {
		t.Errorf("选中 %d 个, 线性约束下最多且最优为 2 个", selected)
	}
}

func TestEngine_MaxEqualityPropagation(t *testing.T) {
	m := NewModel()
	x := m.NewBoolVar("x")
	skip := m.NewBoolVar("skip")
	m.AddExactlyOne([]Var{x, skip})
	active := m.NewBoolVar("active")
	m.AddMaxEquality("day_active", active, []Var{x})
	m.SetObjectiveCoeff(x, 5)

	sol, err := NewBranchAndBoundEngine().Solve(m, time.Second)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.Value(x) != sol.Value(active) {
		t.Errorf("指示变量未跟随操作数: x=%v active=%v", sol.Value(x), sol.Value(active))
	}
	if !sol.Value(x) {
		t.Error("有正目标系数时应选中 x")
	}
}

func TestEngine_FreeVarsFixedToZero(t *testing.T) {
	m := NewModel()
	free := m.NewBoolVar("free")
	a := m.NewBoolVar("a")
	m.AddExactlyOne([]Var{a})

	sol, err := NewBranchAndBoundEngine().Solve(m, time.Second)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.Value(free) {
		t.Error("未约束变量应固定为 0")
	}
	if !sol.Value(a) {
		t.Error("单变量组必须选中")
	}
}
