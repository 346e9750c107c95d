// Package slotgen 提供排班槽位的确定性生成
package slotgen

import (
	"github.com/lunban/lunban/pkg/model"
)

// Generate 将排班周期确定性地展开为有序槽位序列
//
// 每个日期按早/中/夜的固定顺序生成三个槽位，总数 = 天数 x 3。
// 相同输入必然产出完全相同且顺序一致的结果，休息时长与连续天数
// 检查依赖该顺序。纯函数，无副作用。
func Generate(period model.Period, constraint *model.Constraint) []model.ShiftSlot {
	dates := period.Dates()
	if len(dates) == 0 {
		return nil
	}

	slots := make([]model.ShiftSlot, 0, len(dates)*len(model.ShiftTypes))
	for _, date := range dates {
		for _, shiftType := range model.ShiftTypes {
			slots = append(slots, model.ShiftSlot{
				Date:           date,
				Type:           shiftType,
				RequiredSkills: constraint.SkillsForSlot(shiftType),
			})
		}
	}
	return slots
}
