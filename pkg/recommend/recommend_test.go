package recommend

import (
	"strings"
	"testing"

	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/stats"
)

func contains(list []string, substr string) bool {
	for _, s := range list {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func TestEngine_BaselineRecommendations(t *testing.T) {
	loads := []*stats.EmployeeLoad{
		{EmployeeID: "e1", EmployeeName: "张三", WeekendShifts: 1},
	}

	recs := NewEngine().Generate(loads, model.DefaultConstraint(), "efficiency")

	if !contains(recs, "休息间隔") {
		t.Errorf("缺少休息间隔基础建议: %v", recs)
	}
	if !contains(recs, "带教") {
		t.Errorf("缺少带教基础建议: %v", recs)
	}
}

func TestEngine_FairnessGoal(t *testing.T) {
	loads := []*stats.EmployeeLoad{
		{EmployeeID: "e1", EmployeeName: "张三", WeekendShifts: 1},
	}

	recs := NewEngine().Generate(loads, model.DefaultConstraint(), "fairness")
	if !contains(recs, "公平性") {
		t.Errorf("公平性目标应产生专项建议: %v", recs)
	}

	recs = NewEngine().Generate(loads, model.DefaultConstraint(), "efficiency")
	if contains(recs, "公平性") {
		t.Errorf("效率目标不应产生公平性专项建议: %v", recs)
	}
}

func TestEngine_RequiredSkills(t *testing.T) {
	constraint := &model.Constraint{
		RequiredSkills: map[string][]string{"night": {"security"}},
	}
	constraint.ApplyDefaults()
	loads := []*stats.EmployeeLoad{
		{EmployeeID: "e1", EmployeeName: "张三", WeekendShifts: 1},
	}

	recs := NewEngine().Generate(loads, constraint, "efficiency")
	if !contains(recs, "技能") {
		t.Errorf("配置技能要求时应建议跨技能培训: %v", recs)
	}
}

func TestEngine_ZeroWeekendCoverage(t *testing.T) {
	loads := []*stats.EmployeeLoad{
		{EmployeeID: "e1", EmployeeName: "张三", WeekendShifts: 0},
		{EmployeeID: "e2", EmployeeName: "李四", WeekendShifts: 0},
	}

	recs := NewEngine().Generate(loads, model.DefaultConstraint(), "efficiency")
	if !contains(recs, "周末班次被覆盖") {
		t.Errorf("周末零覆盖时应给出提示: %v", recs)
	}
}

func TestEngine_SpreadThresholds(t *testing.T) {
	loads := []*stats.EmployeeLoad{
		{EmployeeID: "e1", EmployeeName: "张三", NightShifts: 6, WeekendShifts: 4},
		{EmployeeID: "e2", EmployeeName: "李四", NightShifts: 1, WeekendShifts: 1},
	}

	recs := NewEngine().Generate(loads, model.DefaultConstraint(), "efficiency")
	if !contains(recs, "夜班分配差距") {
		t.Errorf("夜班差距超过阈值应给出建议: %v", recs)
	}
	if !contains(recs, "周末班分配差距") {
		t.Errorf("周末班差距超过阈值应给出建议: %v", recs)
	}

	even := []*stats.EmployeeLoad{
		{EmployeeID: "e1", EmployeeName: "张三", NightShifts: 2, WeekendShifts: 1},
		{EmployeeID: "e2", EmployeeName: "李四", NightShifts: 1, WeekendShifts: 1},
	}
	recs = NewEngine().Generate(even, model.DefaultConstraint(), "efficiency")
	if contains(recs, "夜班分配差距") || contains(recs, "周末班分配差距") {
		t.Errorf("分布均衡时不应给出差距建议: %v", recs)
	}
}
