// Package taskstore 提供批量优化任务的状态存储
package taskstore

import (
	"context"
	"sync"
)

// 任务状态
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Task 批量任务状态
type Task struct {
	ID       string `json:"task_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
}

// Store 任务状态存储
//
// 多个在途批量任务会并发读写同一存储，实现必须保证并发安全。
// 查询不存在的任务返回 (nil, nil)，由调用方决定兜底语义。
type Store interface {
	Put(ctx context.Context, task *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore 进程内任务存储，单实例部署使用
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

// NewMemoryStore 创建进程内任务存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]Task),
	}
}

// Put 写入任务状态
func (s *MemoryStore) Put(_ context.Context, task *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

// Get 查询任务状态
func (s *MemoryStore) Get(_ context.Context, id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

// Delete 删除任务状态
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}
