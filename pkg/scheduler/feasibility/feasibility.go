// Package feasibility 提供（员工, 槽位）组合的合法性判定
//
// 精确求解与遗传算法共用同一判定，两边出现分歧即为正确性缺陷。
package feasibility

import (
	"github.com/lunban/lunban/pkg/model"
)

// IsFeasible 判断（员工, 槽位）组合是否合法
//
// 合法条件：槽位所在星期出现在员工可用性中且包含该班次类型，
// 且（槽位无技能要求 或 员工技能集与要求有交集）。
func IsFeasible(emp *model.Employee, slot *model.ShiftSlot, _ *model.Constraint) bool {
	weekday := model.WeekdayName(slot.Date)
	if weekday == "" {
		return false
	}
	if !emp.IsAvailableOn(weekday, slot.Type) {
		return false
	}
	if !slot.RequiresSkills() {
		return true
	}
	return emp.HasAnySkill(slot.RequiredSkills)
}

// Options 返回槽位的全部可行员工下标，顺序与输入一致
func Options(employees []*model.Employee, slot *model.ShiftSlot, constraint *model.Constraint) []int {
	var options []int
	for i, emp := range employees {
		if IsFeasible(emp, slot, constraint) {
			options = append(options, i)
		}
	}
	return options
}

// Table 预计算每个槽位的可行员工下标表
func Table(employees []*model.Employee, slots []model.ShiftSlot, constraint *model.Constraint) [][]int {
	table := make([][]int, len(slots))
	for i := range slots {
		table[i] = Options(employees, &slots[i], constraint)
	}
	return table
}
