// Package handler 提供 HTTP 请求处理器
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lunban/lunban/internal/metrics"
	"github.com/lunban/lunban/internal/repository"
	"github.com/lunban/lunban/internal/taskstore"
	apperrors "github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler"
)

// Handler HTTP 处理器集合
type Handler struct {
	optimizer *scheduler.Optimizer
	tasks     taskstore.Store
	metrics   *metrics.Metrics
	employees *repository.EmployeeRepository
	validate  *validator.Validate
}

// New 创建处理器集合
//
// employees 可以为 nil，此时员工 CRUD 接口返回服务不可用。
func New(optimizer *scheduler.Optimizer, tasks taskstore.Store, m *metrics.Metrics, employees *repository.EmployeeRepository) *Handler {
	return &Handler{
		optimizer: optimizer,
		tasks:     tasks,
		metrics:   m,
		employees: employees,
		validate:  newValidate(),
	}
}

// newValidate 创建请求校验器并注册领域校验规则
func newValidate() *validator.Validate {
	v := validator.New()

	// 班次名大小写不敏感，与可用性匹配逻辑保持一致
	v.RegisterValidation("shifttype", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseShiftType(fl.Field().String())
		return ok
	})

	// 日期接受纯日期或带时间的 ISO 时间戳，时间部分截掉
	v.RegisterValidation("scheduledate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", dateOnly(fl.Field().String()))
		return err == nil
	})

	return v
}

// RegisterRoutes 注册业务路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/shifts", func(r chi.Router) {
		r.Post("/generate", h.Generate)
		r.Post("/analyze", h.Analyze)
		r.Get("/constraints/validate", h.ValidateConstraints)
		r.Post("/batch-optimize", h.BatchOptimize)
		r.Get("/optimization-status/{task_id}", h.OptimizationStatus)
		r.Get("/performance/metrics", h.PerformanceMetrics)
	})
	r.Route("/api/v1/employees", func(r chi.Router) {
		r.Post("/", h.CreateEmployee)
		r.Get("/", h.ListEmployees)
		r.Get("/{id}", h.GetEmployee)
	})
}

// respondJSON 返回 JSON 响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err error) {
	appErr := &apperrors.AppError{}
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(err, apperrors.CodeInternal, "内部错误")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    appErr.Code,
		"message": appErr.Message,
		"details": appErr.Details,
	})
}
