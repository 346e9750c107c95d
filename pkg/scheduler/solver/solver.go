// Package solver 提供排班求解器
package solver

import (
	"context"
	"time"

	"github.com/lunban/lunban/pkg/model"
)

// 求解器名称
const (
	NameExact   = "exact_cp"
	NameGenetic = "genetic_fallback"
)

// Solver 求解器接口
type Solver interface {
	// Solve 在给定员工、槽位与约束下生成排班方案
	Solve(ctx context.Context, employees []*model.Employee, slots []model.ShiftSlot, constraint *model.Constraint) (*Result, error)

	// Name 返回求解器名称
	Name() string
}

// Result 求解结果
type Result struct {
	Schedule       []model.Assignment `json:"schedule"`
	UncoveredSlots int                `json:"uncovered_slots"` // 无任何可行员工的槽位数
	Duration       time.Duration      `json:"duration"`
	Solver         string             `json:"solver"`
}
