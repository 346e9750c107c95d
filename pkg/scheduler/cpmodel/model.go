// Package cpmodel 提供布尔决策变量上的约束模型及求解引擎
//
// 模型由纯函数式的构建阶段产出（便于单独测试），再交给具体引擎求解。
// 支持的约束形态：恰选其一、互斥、线性不等式、逻辑或等值。
package cpmodel

import (
	"fmt"
	"time"
)

// Var 布尔变量句柄
type Var int

// LinearLE 线性不等式约束 sum(coeff_i * var_i) <= Bound
// 系数必须非负
type LinearLE struct {
	Tag    string
	Vars   []Var
	Coeffs []int64
	Bound  int64
}

// MaxEquality 逻辑或等值约束 Target = OR(Operands)
type MaxEquality struct {
	Tag      string
	Target   Var
	Operands []Var
}

// Model 布尔约束模型
type Model struct {
	numVars    int
	names      []string
	exactlyOne [][]Var
	mutex      [][2]Var
	linear     []LinearLE
	maxEq      []MaxEquality
	objective  []int64 // 每个变量的目标系数，最大化
}

// NewModel 创建空模型
func NewModel() *Model {
	return &Model{}
}

// NewBoolVar 创建布尔变量
func (m *Model) NewBoolVar(name string) Var {
	v := Var(m.numVars)
	m.numVars++
	m.names = append(m.names, name)
	m.objective = append(m.objective, 0)
	return v
}

// NumVars 返回变量数量
func (m *Model) NumVars() int {
	return m.numVars
}

// Name 返回变量名称
func (m *Model) Name(v Var) string {
	return m.names[v]
}

// AddExactlyOne 约束一组变量中恰好一个为真
func (m *Model) AddExactlyOne(vars []Var) {
	if len(vars) == 0 {
		return
	}
	group := make([]Var, len(vars))
	copy(group, vars)
	m.exactlyOne = append(m.exactlyOne, group)
}

// AddAtMostOne 约束两个变量互斥（不可同时为真）
func (m *Model) AddAtMostOne(a, b Var) {
	m.mutex = append(m.mutex, [2]Var{a, b})
}

// AddLinearLE 约束线性和不超过上界，系数须非负
func (m *Model) AddLinearLE(tag string, vars []Var, coeffs []int64, bound int64) error {
	if len(vars) != len(coeffs) {
		return fmt.Errorf("变量与系数数量不一致: %d != %d", len(vars), len(coeffs))
	}
	for _, c := range coeffs {
		if c < 0 {
			return fmt.Errorf("线性约束 %s 含负系数", tag)
		}
	}
	vs := make([]Var, len(vars))
	cs := make([]int64, len(coeffs))
	copy(vs, vars)
	copy(cs, coeffs)
	m.linear = append(m.linear, LinearLE{Tag: tag, Vars: vs, Coeffs: cs, Bound: bound})
	return nil
}

// AddMaxEquality 约束 target 等于一组变量的逻辑或
func (m *Model) AddMaxEquality(tag string, target Var, operands []Var) {
	ops := make([]Var, len(operands))
	copy(ops, operands)
	m.maxEq = append(m.maxEq, MaxEquality{Tag: tag, Target: target, Operands: ops})
}

// SetObjectiveCoeff 设置变量的最大化目标系数
func (m *Model) SetObjectiveCoeff(v Var, coeff int64) {
	m.objective[v] = coeff
}

// Solution 求解结果
type Solution struct {
	Values    []bool
	Objective int64
	Optimal   bool // 搜索完整结束（非时限截断）
}

// Value 读取变量取值
func (s *Solution) Value(v Var) bool {
	return s.Values[v]
}

// Engine 求解引擎接口
// 在时限内返回找到的最优解；完全无可行解时返回 ErrInfeasible
type Engine interface {
	Solve(m *Model, timeout time.Duration) (*Solution, error)
	Name() string
}
