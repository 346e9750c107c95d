package cpmodel

import (
	"errors"
	"math"
	"sort"
	"time"
)

// 求解终止状态
var (
	// ErrInfeasible 模型在硬约束下完全无可行解
	ErrInfeasible = errors.New("cpmodel: 模型无可行解")
	// ErrTimedOut 时限内未找到任何可行解
	ErrTimedOut = errors.New("cpmodel: 求解超时且无可行解")
)

// BranchAndBoundEngine 分支定界引擎
//
// 按恰选其一组的声明顺序逐组枚举，互斥与逻辑或约束即时传播，
// 线性约束增量累加剪枝，目标上界用组内最大系数的后缀和估计。
type BranchAndBoundEngine struct {
	checkInterval int // 每多少个节点检查一次时限
}

// NewBranchAndBoundEngine 创建分支定界引擎
func NewBranchAndBoundEngine() *BranchAndBoundEngine {
	return &BranchAndBoundEngine{checkInterval: 2048}
}

// Name 返回引擎名称
func (e *BranchAndBoundEngine) Name() string {
	return "branch_and_bound"
}

// 回溯日志条目类型
const (
	chValue uint8 = iota
	chForbid
	chLinear
	chRemaining
	chObjective
)

type change struct {
	kind   uint8
	index  int
	amount int64
}

type searchState struct {
	m *Model

	val       []int8 // -1 未定, 0, 1
	forbidden []int  // 互斥传播计数，>0 表示不可取真

	mutexAdj [][]Var

	linSum []int64
	linOcc [][]linRef // 变量到线性约束的引用

	eqByOperand [][]int // 变量作为或操作数出现的约束索引
	eqRemaining []int   // 各或约束未定操作数计数

	trail []change

	best     []bool
	bestObj  int64
	hasBest  bool
	current  int64
	nodes    int
	deadline time.Time
	timedOut bool
}

type linRef struct {
	ci    int
	coeff int64
}

// Solve 在时限内求模型的最优可行解
func (e *BranchAndBoundEngine) Solve(m *Model, timeout time.Duration) (*Solution, error) {
	st := &searchState{
		m:           m,
		val:         make([]int8, m.numVars),
		forbidden:   make([]int, m.numVars),
		mutexAdj:    make([][]Var, m.numVars),
		linSum:      make([]int64, len(m.linear)),
		linOcc:      make([][]linRef, m.numVars),
		eqByOperand: make([][]int, m.numVars),
		eqRemaining: make([]int, len(m.maxEq)),
		bestObj:     math.MinInt64,
		deadline:    time.Now().Add(timeout),
	}
	for i := range st.val {
		st.val[i] = -1
	}
	for _, pair := range m.mutex {
		st.mutexAdj[pair[0]] = append(st.mutexAdj[pair[0]], pair[1])
		st.mutexAdj[pair[1]] = append(st.mutexAdj[pair[1]], pair[0])
	}
	for ci, lc := range m.linear {
		for i, v := range lc.Vars {
			st.linOcc[v] = append(st.linOcc[v], linRef{ci: ci, coeff: lc.Coeffs[i]})
		}
	}
	for ei, eq := range m.maxEq {
		st.eqRemaining[ei] = len(eq.Operands)
		for _, v := range eq.Operands {
			st.eqByOperand[v] = append(st.eqByOperand[v], ei)
		}
	}

	// 未出现在任何恰选组且非或目标的变量固定为假
	inGroup := make([]bool, m.numVars)
	for _, group := range m.exactlyOne {
		for _, v := range group {
			inGroup[v] = true
		}
	}
	isTarget := make([]bool, m.numVars)
	for _, eq := range m.maxEq {
		isTarget[eq.Target] = true
	}
	for v := 0; v < m.numVars; v++ {
		if !inGroup[v] && !isTarget[v] && st.val[v] == -1 {
			if !st.assign(Var(v), 0) {
				return nil, ErrInfeasible
			}
		}
	}

	// 各组取值按目标系数降序排列，保证贪心优先且结果确定
	groups := make([][]Var, len(m.exactlyOne))
	for gi, group := range m.exactlyOne {
		g := make([]Var, len(group))
		copy(g, group)
		sort.SliceStable(g, func(i, j int) bool {
			oi, oj := m.objective[g[i]], m.objective[g[j]]
			if oi != oj {
				return oi > oj
			}
			return g[i] < g[j]
		})
		groups[gi] = g
	}

	// 目标上界的后缀和
	suffix := make([]int64, len(groups)+1)
	for gi := len(groups) - 1; gi >= 0; gi-- {
		var best int64 = math.MinInt64
		for _, v := range groups[gi] {
			if m.objective[v] > best {
				best = m.objective[v]
			}
		}
		suffix[gi] = suffix[gi+1] + best
	}

	st.search(e, groups, suffix, 0)

	if !st.hasBest {
		if st.timedOut {
			return nil, ErrTimedOut
		}
		return nil, ErrInfeasible
	}
	return &Solution{
		Values:    st.best,
		Objective: st.bestObj,
		Optimal:   !st.timedOut,
	}, nil
}

// search 递归处理第 gi 组
func (st *searchState) search(e *BranchAndBoundEngine, groups [][]Var, suffix []int64, gi int) {
	st.nodes++
	if st.nodes%e.checkInterval == 0 && time.Now().After(st.deadline) {
		st.timedOut = true
	}
	if st.timedOut {
		return
	}

	if gi == len(groups) {
		if st.current > st.bestObj {
			st.bestObj = st.current
			st.best = make([]bool, len(st.val))
			for i, v := range st.val {
				st.best[i] = v == 1
			}
			st.hasBest = true
		}
		return
	}

	// 目标上界剪枝
	if st.hasBest && st.current+suffix[gi] <= st.bestObj {
		return
	}

	group := groups[gi]

	// 组内已有真值（跨组共享变量）则直接跳过
	for _, v := range group {
		if st.val[v] == 1 {
			st.search(e, groups, suffix, gi+1)
			return
		}
	}

	for _, v := range group {
		if st.val[v] == 0 || st.forbidden[v] > 0 {
			continue
		}
		mark := len(st.trail)
		ok := true
		for _, w := range group {
			if w == v {
				continue
			}
			if st.val[w] == -1 && !st.assign(w, 0) {
				ok = false
				break
			}
		}
		if ok && st.assign(v, 1) {
			st.search(e, groups, suffix, gi+1)
		}
		st.undo(mark)
		if st.timedOut {
			return
		}
	}
}

// assign 为变量赋值并传播，冲突时返回 false（已记录的变更由调用方回滚）
func (st *searchState) assign(v Var, b int8) bool {
	if st.val[v] != -1 {
		return st.val[v] == b
	}
	if b == 1 && st.forbidden[v] > 0 {
		return false
	}
	st.val[v] = b
	st.trail = append(st.trail, change{kind: chValue, index: int(v)})

	if b == 1 && st.m.objective[v] != 0 {
		st.current += st.m.objective[v]
		st.trail = append(st.trail, change{kind: chObjective, amount: st.m.objective[v]})
	}

	if b == 1 {
		// 互斥传播
		for _, w := range st.mutexAdj[v] {
			if st.val[w] == 1 {
				return false
			}
			st.forbidden[w]++
			st.trail = append(st.trail, change{kind: chForbid, index: int(w)})
		}
		// 线性累加与剪枝
		for _, ref := range st.linOcc[v] {
			st.linSum[ref.ci] += ref.coeff
			st.trail = append(st.trail, change{kind: chLinear, index: ref.ci, amount: ref.coeff})
			if st.linSum[ref.ci] > st.m.linear[ref.ci].Bound {
				return false
			}
		}
	}

	// 或约束传播
	for _, ei := range st.eqByOperand[v] {
		target := st.m.maxEq[ei].Target
		if b == 1 {
			if !st.assign(target, 1) {
				return false
			}
			continue
		}
		st.eqRemaining[ei]--
		st.trail = append(st.trail, change{kind: chRemaining, index: ei})
		if st.eqRemaining[ei] == 0 && st.val[target] == -1 {
			if !st.assign(target, 0) {
				return false
			}
		}
	}
	return true
}

// undo 回滚到指定的日志位置
func (st *searchState) undo(mark int) {
	for i := len(st.trail) - 1; i >= mark; i-- {
		ch := st.trail[i]
		switch ch.kind {
		case chValue:
			st.val[ch.index] = -1
		case chForbid:
			st.forbidden[ch.index]--
		case chLinear:
			st.linSum[ch.index] -= ch.amount
		case chRemaining:
			st.eqRemaining[ch.index]++
		case chObjective:
			st.current -= ch.amount
		}
	}
	st.trail = st.trail[:mark]
}
