package solver

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/feasibility"
)

// 遗传算法参数
const (
	defaultPopulationSize = 80
	defaultGenerations    = 120
	defaultMutationRate   = 0.12
	defaultCrossoverRate  = 0.75
	defaultElitismRate    = 0.1
	defaultTournamentSize = 4
	earlyStopFitness      = 0.96
)

// 适应度权重与惩罚系数
const (
	efficiencyWeight = 0.4
	fairnessWeight   = 0.3
	penaltyWeight    = 0.01

	penaltyUnassigned = 1.0
	penaltyOverCap    = 2.0
	penaltyNight      = 0.5
	penaltyWeekend    = 0.3
)

// 公平性三因子权重
const (
	fairHoursWeight   = 0.5
	fairNightWeight   = 0.3
	fairWeekendWeight = 0.2
)

// unassignedGene 基因取值：槽位未分配
const unassignedGene = -1

// GeneticSolver 遗传算法兜底求解器
//
// 染色体为每个槽位一个基因，取值为员工下标或未分配；
// 初始化与变异只在可行选项内取值。精确求解产出空方案时启用。
type GeneticSolver struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	ElitismRate    float64
	TournamentSize int

	rng     *rand.Rand
	workers int
	log     *logger.OptimizerLogger
}

// NewGeneticSolver 创建遗传求解器
//
// 随机源由显式种子注入，便于复现测试结果。
func NewGeneticSolver(seed int64) *GeneticSolver {
	return &GeneticSolver{
		PopulationSize: defaultPopulationSize,
		Generations:    defaultGenerations,
		MutationRate:   defaultMutationRate,
		CrossoverRate:  defaultCrossoverRate,
		ElitismRate:    defaultElitismRate,
		TournamentSize: defaultTournamentSize,
		rng:            rand.New(rand.NewSource(seed)),
		workers:        runtime.NumCPU(),
		log:            logger.NewOptimizerLogger(),
	}
}

// Name 返回求解器名称
func (s *GeneticSolver) Name() string {
	return NameGenetic
}

// gaContext 单次求解的只读快照
type gaContext struct {
	employees  []*model.Employee
	slots      []model.ShiftSlot
	constraint *model.Constraint
	feasTable  [][]int
}

// Solve 运行遗传搜索
func (s *GeneticSolver) Solve(ctx context.Context, employees []*model.Employee, slots []model.ShiftSlot, constraint *model.Constraint) (*Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gc := &gaContext{
		employees:  employees,
		slots:      slots,
		constraint: constraint,
		feasTable:  feasibility.Table(employees, slots, constraint),
	}

	uncovered := 0
	for _, options := range gc.feasTable {
		if len(options) == 0 {
			uncovered++
		}
	}

	population := s.initializePopulation(gc)
	var best []int
	bestFitness := -1.0

	for generation := 0; generation < s.Generations; generation++ {
		fitness := s.evaluateAll(population, gc)

		for idx, score := range fitness {
			if score > bestFitness {
				bestFitness = score
				best = append([]int(nil), population[idx]...)
			}
		}
		if bestFitness > earlyStopFitness {
			break
		}

		population = s.nextGeneration(population, fitness, gc)

		if generation%20 == 0 && ctx.Err() != nil {
			break
		}
	}

	schedule := s.convert(best, gc)
	return &Result{
		Schedule:       schedule,
		UncoveredSlots: uncovered,
		Duration:       time.Since(start),
		Solver:         s.Name(),
	}, nil
}

// initializePopulation 在可行选项内随机生成初始种群
func (s *GeneticSolver) initializePopulation(gc *gaContext) [][]int {
	population := make([][]int, s.PopulationSize)
	for i := range population {
		chromosome := make([]int, len(gc.slots))
		for slotIdx, options := range gc.feasTable {
			if len(options) == 0 {
				chromosome[slotIdx] = unassignedGene
				continue
			}
			chromosome[slotIdx] = options[s.rng.Intn(len(options))]
		}
		population[i] = chromosome
	}
	return population
}

// evaluateAll 并行评估种群适应度
//
// 适应度为纯函数，按下标回填，并行不改变结果。
func (s *GeneticSolver) evaluateAll(population [][]int, gc *gaContext) []float64 {
	fitness := make([]float64, len(population))

	workers := s.workers
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan int, len(population))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				fitness[idx] = s.evaluateFitness(population[idx], gc)
			}
		}()
	}
	for i := range population {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return fitness
}

// evaluateFitness 计算单条染色体的适应度
//
// 效率 = 已分配员工绩效均值 / 5；
// 惩罚：未分配槽位 +1，员工周工时超上限 +2，夜班 +0.5，周末班 +0.3；
// 公平性 = 工时 50% + 夜班 30% + 周末班 20% 的均衡度加权。
func (s *GeneticSolver) evaluateFitness(chromosome []int, gc *gaContext) float64 {
	var perfSum float64
	assigned := 0
	penalties := 0.0

	hoursByEmp := make(map[int]map[string]int) // 员工 -> 周起始 -> 工时
	nights := make([]float64, len(gc.employees))
	weekends := make([]float64, len(gc.employees))
	hoursTotal := make([]float64, len(gc.employees))

	for slotIdx, empIdx := range chromosome {
		if empIdx < 0 {
			penalties += penaltyUnassigned
			continue
		}
		emp := gc.employees[empIdx]
		slot := &gc.slots[slotIdx]

		perfSum += emp.PerformanceScore
		assigned++
		hoursTotal[empIdx] += model.ShiftHours

		week := model.WeekStart(slot.Date)
		if hoursByEmp[empIdx] == nil {
			hoursByEmp[empIdx] = make(map[string]int)
		}
		hoursByEmp[empIdx][week] += model.ShiftHours

		if slot.IsNight() {
			nights[empIdx]++
			penalties += penaltyNight
		}
		if slot.IsWeekend() {
			weekends[empIdx]++
			penalties += penaltyWeekend
		}
	}

	if assigned == 0 {
		return 0
	}

	// 员工周工时超限惩罚
	for empIdx, weeks := range hoursByEmp {
		limit := gc.employees[empIdx].WeeklyHoursCap(gc.constraint)
		for _, hours := range weeks {
			if hours > limit {
				penalties += penaltyOverCap
			}
		}
	}

	efficiency := perfSum / (float64(assigned) * 5)
	fairness := blendFairness(hoursTotal, nights, weekends, gc.constraint.MaxHoursPerWeek)

	score := efficiency*efficiencyWeight + fairness*fairnessWeight - penalties*penaltyWeight
	if score < 0 {
		return 0
	}
	return score
}

// blendFairness 计算工时/夜班/周末三因子加权均衡度
//
// 工时项按全局周上限归一，夜班与周末项按各自均值归一；
// 每一项单独下限 0，避免某一项把总分拉成负数。
func blendFairness(hours, nights, weekends []float64, maxHours int) float64 {
	norm := float64(maxHours)
	if norm < 1 {
		norm = 1
	}
	hoursEven := evenness(hours, norm)
	nightEven := evenness(nights, stat.Mean(nights, nil))
	weekendEven := evenness(weekends, stat.Mean(weekends, nil))

	return fairHoursWeight*hoursEven + fairNightWeight*nightEven + fairWeekendWeight*weekendEven
}

// evenness 均衡度 = 1 - 总体标准差/归一基准，下限 0
func evenness(xs []float64, norm float64) float64 {
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

// nextGeneration 精英保留 + 锦标赛选择 + 单点交叉 + 变异
func (s *GeneticSolver) nextGeneration(population [][]int, fitness []float64, gc *gaContext) [][]int {
	next := make([][]int, 0, s.PopulationSize)

	eliteCount := int(float64(s.PopulationSize) * s.ElitismRate)
	if eliteCount < 1 {
		eliteCount = 1
	}
	order := make([]int, len(fitness))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return fitness[order[i]] > fitness[order[j]]
	})
	for _, idx := range order[:eliteCount] {
		next = append(next, append([]int(nil), population[idx]...))
	}

	for len(next) < s.PopulationSize {
		parent1 := s.tournament(population, fitness)
		parent2 := s.tournament(population, fitness)

		var child1, child2 []int
		if s.rng.Float64() < s.CrossoverRate {
			child1, child2 = s.crossover(parent1, parent2)
		} else {
			child1 = append([]int(nil), parent1...)
			child2 = append([]int(nil), parent2...)
		}

		if s.rng.Float64() < s.MutationRate {
			s.mutate(child1, gc)
		}
		if s.rng.Float64() < s.MutationRate {
			s.mutate(child2, gc)
		}

		next = append(next, child1, child2)
	}

	return next[:s.PopulationSize]
}

// tournament 锦标赛选择
func (s *GeneticSolver) tournament(population [][]int, fitness []float64) []int {
	k := s.TournamentSize
	if k > len(population) {
		k = len(population)
	}
	bestIdx := s.rng.Intn(len(population))
	for i := 1; i < k; i++ {
		idx := s.rng.Intn(len(population))
		if fitness[idx] > fitness[bestIdx] {
			bestIdx = idx
		}
	}
	return population[bestIdx]
}

// crossover 单点交叉
func (s *GeneticSolver) crossover(parent1, parent2 []int) ([]int, []int) {
	n := len(parent1)
	if n < 2 {
		return append([]int(nil), parent1...), append([]int(nil), parent2...)
	}
	point := 1 + s.rng.Intn(n-1)
	child1 := append(append([]int(nil), parent1[:point]...), parent2[point:]...)
	child2 := append(append([]int(nil), parent2[:point]...), parent1[point:]...)
	return child1, child2
}

// mutate 随机重采样一个基因，取值限定在该槽位的可行选项内
func (s *GeneticSolver) mutate(chromosome []int, gc *gaContext) {
	if len(chromosome) == 0 {
		return
	}
	point := s.rng.Intn(len(chromosome))
	options := gc.feasTable[point]
	if len(options) == 0 {
		chromosome[point] = unassignedGene
		return
	}
	chromosome[point] = options[s.rng.Intn(len(options))]
}

// convert 将最优染色体转换为有序分配列表
//
// 置信度由上层的置信度评分器填充。
func (s *GeneticSolver) convert(best []int, gc *gaContext) []model.Assignment {
	if best == nil {
		return []model.Assignment{}
	}
	schedule := make([]model.Assignment, 0, len(best))
	for slotIdx, empIdx := range best {
		if empIdx < 0 {
			continue
		}
		emp := gc.employees[empIdx]
		slot := gc.slots[slotIdx]
		schedule = append(schedule, model.Assignment{
			EmployeeID:     emp.ID,
			EmployeeName:   emp.Name,
			Day:            slot.Date,
			Slot:           slot.Type,
			RequiredSkills: slot.RequiredSkills,
		})
	}
	return schedule
}
