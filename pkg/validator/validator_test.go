package validator

import (
	"testing"

	"github.com/lunban/lunban/pkg/model"
)

func TestValidateConstraint_MinRestTooLow(t *testing.T) {
	c := &model.Constraint{MaxHoursPerWeek: 40, MinRestHours: 6, MaxConsecutiveDays: 6}

	result := ValidateConstraint(c)

	if result.Valid {
		t.Error("最小休息 6 小时应判定为无效")
	}
	if len(result.Errors) == 0 {
		t.Error("应给出明确的错误说明")
	}
}

func TestValidateConstraint_HoursWarnings(t *testing.T) {
	tests := []struct {
		name     string
		maxHours int
		wantWarn bool
	}{
		{"过高工时告警", 70, true},
		{"过低工时告警", 16, true},
		{"正常工时无告警", 40, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &model.Constraint{MaxHoursPerWeek: tt.maxHours, MinRestHours: 12, MaxConsecutiveDays: 6}
			result := ValidateConstraint(c)

			if !result.Valid {
				t.Error("工时告警不应导致配置无效")
			}
			if (len(result.Warnings) > 0) != tt.wantWarn {
				t.Errorf("Warnings = %v, wantWarn = %v", result.Warnings, tt.wantWarn)
			}
		})
	}
}

func TestValidateConstraint_ValidDefault(t *testing.T) {
	result := ValidateConstraint(model.DefaultConstraint())

	if !result.Valid || len(result.Errors) != 0 || len(result.Warnings) != 0 {
		t.Errorf("默认约束应完全通过校验: %+v", result)
	}
	if result.Recommendation == "" {
		t.Error("应给出建议文本")
	}
}
