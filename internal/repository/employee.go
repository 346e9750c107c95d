// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lunban/lunban/pkg/model"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("repository: 记录不存在")

// DB 仓储使用的数据库操作子集
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create 创建员工
func (r *EmployeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}
	now := time.Now()

	skillsJSON, _ := json.Marshal(emp.Skills)
	availJSON, _ := json.Marshal(emp.Availability)

	query := `
		INSERT INTO employees (
			id, name, skills, performance_score, max_hours_per_week,
			availability, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.Name, skillsJSON, emp.PerformanceScore, emp.MaxHoursPerWeek,
		availJSON, now, now,
	)
	if err != nil {
		return fmt.Errorf("创建员工失败: %w", err)
	}

	return nil
}

// GetByID 根据 ID 获取员工
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	query := `
		SELECT id, name, skills, performance_score, max_hours_per_week, availability
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`

	return r.scanEmployee(r.db.QueryRowContext(ctx, query, id))
}

// List 列出员工
func (r *EmployeeRepository) List(ctx context.Context, offset, limit int) ([]*model.Employee, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, name, skills, performance_score, max_hours_per_week, availability
		FROM employees
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("查询员工列表失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := scanEmployeeRow(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// GetByIDs 批量获取员工，保持输入顺序
func (r *EmployeeRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Employee, error) {
	employees := make([]*model.Employee, 0, len(ids))
	for _, id := range ids {
		emp, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// Delete 软删除员工
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE employees SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除员工失败: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner Row 与 Rows 的共同扫描接口
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *EmployeeRepository) scanEmployee(row *sql.Row) (*model.Employee, error) {
	emp, err := scanEmployeeRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return emp, err
}

func scanEmployeeRow(row rowScanner) (*model.Employee, error) {
	emp := &model.Employee{}
	var skillsJSON, availJSON []byte

	if err := row.Scan(&emp.ID, &emp.Name, &skillsJSON, &emp.PerformanceScore,
		&emp.MaxHoursPerWeek, &availJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("扫描员工记录失败: %w", err)
	}

	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &emp.Skills); err != nil {
			return nil, fmt.Errorf("解析员工技能失败: %w", err)
		}
	}
	if len(availJSON) > 0 {
		if err := json.Unmarshal(availJSON, &emp.Availability); err != nil {
			return nil, fmt.Errorf("解析员工可用时间失败: %w", err)
		}
	}
	return emp, nil
}
