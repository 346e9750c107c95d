package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lunban/lunban/internal/repository"
	apperrors "github.com/lunban/lunban/pkg/errors"
)

// CreateEmployee 创建员工记录
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	if h.employees == nil {
		respondError(w, apperrors.New(apperrors.CodeInternal, "未配置员工存储"))
		return
	}

	var in EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
		return
	}
	// 创建时允许省略 ID，由存储层生成
	if in.Name == "" {
		respondError(w, apperrors.InvalidInput("name", "员工姓名不能为空"))
		return
	}
	if in.PerformanceScore < 0 || in.PerformanceScore > 5 {
		respondError(w, apperrors.InvalidInput("performance_score", "绩效评分必须在 0 到 5 之间"))
		return
	}
	if in.MaxHoursPerWeek < 0 || in.MaxHoursPerWeek > 168 {
		respondError(w, apperrors.InvalidInput("max_hours_per_week", "周最大工时必须在 0 到 168 之间"))
		return
	}

	emp := toEmployees([]EmployeeInput{in})[0]
	if err := h.employees.Create(r.Context(), emp); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeDatabaseError, "创建员工失败"))
		return
	}
	respondJSON(w, http.StatusCreated, emp)
}

// GetEmployee 查询单个员工
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	if h.employees == nil {
		respondError(w, apperrors.New(apperrors.CodeInternal, "未配置员工存储"))
		return
	}

	id := chi.URLParam(r, "id")
	emp, err := h.employees.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, apperrors.New(apperrors.CodeNotFound, "员工不存在"))
			return
		}
		respondError(w, apperrors.Wrap(err, apperrors.CodeDatabaseError, "查询员工失败"))
		return
	}
	respondJSON(w, http.StatusOK, emp)
}

// ListEmployees 列出员工
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	if h.employees == nil {
		respondError(w, apperrors.New(apperrors.CodeInternal, "未配置员工存储"))
		return
	}

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)

	employees, err := h.employees.List(r.Context(), offset, limit)
	if err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeDatabaseError, "查询员工列表失败"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"employees": employees,
		"offset":    offset,
		"limit":     limit,
	})
}
