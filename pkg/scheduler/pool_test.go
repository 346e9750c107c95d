package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSolvePool_RunWaitsForCompletion(t *testing.T) {
	pool := NewSolvePool(2)
	defer pool.Close()

	var done int32
	err := pool.Run(context.Background(), func() {
		time.Sleep(10 * time.Millisecond)
		atomic.StoreInt32(&done, 1)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if atomic.LoadInt32(&done) != 1 {
		t.Error("Run() 返回时任务尚未完成")
	}
}

func TestSolvePool_ConcurrentJobs(t *testing.T) {
	pool := NewSolvePool(4)
	defer pool.Close()

	var counter int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Run(context.Background(), func() {
				atomic.AddInt32(&counter, 1)
			})
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 16 {
		t.Errorf("完成任务数 = %d, expected 16", got)
	}
}

func TestSolvePool_CanceledBeforeEnqueue(t *testing.T) {
	pool := NewSolvePool(1)
	defer pool.Close()

	// 占住唯一工作协程，让后续任务停在入池等待
	blocker := make(chan struct{})
	go pool.Run(context.Background(), func() { <-blocker })
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pool.Run(ctx, func() {
		t.Error("已取消的任务不应执行")
	})
	if err == nil {
		t.Error("取消后 Run() 应返回错误")
	}
	close(blocker)
}

func TestSolvePool_CloseIdempotent(t *testing.T) {
	pool := NewSolvePool(2)
	pool.Close()
	pool.Close()
}
