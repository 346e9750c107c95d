package feasibility

import (
	"reflect"
	"testing"

	"github.com/lunban/lunban/pkg/model"
)

func TestIsFeasible(t *testing.T) {
	emp := &model.Employee{
		ID:     "e1",
		Name:   "张三",
		Skills: []string{"nursing"},
		Availability: map[string][]string{
			"monday": {"MORNING", "AFTERNOON"},
		},
	}
	constraint := model.DefaultConstraint()

	tests := []struct {
		name     string
		slot     model.ShiftSlot
		expected bool
	}{
		{"可用星期可用班次", model.ShiftSlot{Date: "2026-01-05", Type: model.ShiftMorning}, true},
		{"可用星期不可用班次", model.ShiftSlot{Date: "2026-01-05", Type: model.ShiftNight}, false},
		{"不可用星期", model.ShiftSlot{Date: "2026-01-06", Type: model.ShiftMorning}, false},
		{"技能匹配", model.ShiftSlot{Date: "2026-01-05", Type: model.ShiftMorning, RequiredSkills: []string{"nursing"}}, true},
		{"技能不匹配", model.ShiftSlot{Date: "2026-01-05", Type: model.ShiftMorning, RequiredSkills: []string{"cooking"}}, false},
		{"非法日期", model.ShiftSlot{Date: "not-a-date", Type: model.ShiftMorning}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFeasible(emp, &tt.slot, constraint); got != tt.expected {
				t.Errorf("IsFeasible() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestTable(t *testing.T) {
	employees := []*model.Employee{
		{ID: "e1", Availability: map[string][]string{"monday": {"MORNING"}}},
		{ID: "e2", Availability: map[string][]string{"monday": {"MORNING", "NIGHT"}}},
		{ID: "e3", Availability: map[string][]string{"tuesday": {"MORNING"}}},
	}
	slots := []model.ShiftSlot{
		{Date: "2026-01-05", Type: model.ShiftMorning},
		{Date: "2026-01-05", Type: model.ShiftNight},
		{Date: "2026-01-05", Type: model.ShiftAfternoon},
	}

	table := Table(employees, slots, model.DefaultConstraint())

	if !reflect.DeepEqual(table[0], []int{0, 1}) {
		t.Errorf("早班可行员工 = %v, expected [0 1]", table[0])
	}
	if !reflect.DeepEqual(table[1], []int{1}) {
		t.Errorf("夜班可行员工 = %v, expected [1]", table[1])
	}
	if len(table[2]) != 0 {
		t.Errorf("中班应无可行员工, got %v", table[2])
	}
}
