package taskstore

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	task := &Task{ID: "t1", Status: StatusRunning, Progress: 40, Message: "处理第 2 个周期"}
	if err := s.Put(ctx, task); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.Status != StatusRunning || got.Progress != 40 {
		t.Errorf("Get() = %+v, expected 运行中进度 40", got)
	}

	// 返回副本，调用方修改不应影响存储内容
	got.Progress = 99
	again, _ := s.Get(ctx, "t1")
	if again.Progress != 40 {
		t.Errorf("存储内容被外部修改: progress = %d", again.Progress)
	}

	if err := s.Delete(ctx, "t1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	missing, err := s.Get(ctx, "t1")
	if err != nil || missing != nil {
		t.Errorf("删除后 Get() = (%+v, %v), expected (nil, nil)", missing, err)
	}
}

func TestMemoryStore_MissingTask(t *testing.T) {
	s := NewMemoryStore()

	got, err := s.Get(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("未知任务应返回 nil, got %+v", got)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			task := &Task{ID: "shared", Status: StatusRunning, Progress: n * 5}
			if err := s.Put(ctx, task); err != nil {
				t.Errorf("Put() error = %v", err)
			}
			if _, err := s.Get(ctx, "shared"); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.Get(ctx, "shared")
	if err != nil || got == nil {
		t.Fatalf("并发写后 Get() = (%+v, %v)", got, err)
	}
	if got.Status != StatusRunning {
		t.Errorf("Status = %s, expected %s", got.Status, StatusRunning)
	}
}
