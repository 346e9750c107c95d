package scheduler

import (
	"context"
	"runtime"
	"sync"
)

// SolvePool 求解专用工作池
//
// 精确求解是纯 CPU 密集任务，放到固定数量的工作协程上执行，
// 避免并发的排班请求把请求处理协程全部占满。
type SolvePool struct {
	jobs    chan func()
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

// NewSolvePool 创建求解工作池
func NewSolvePool(workers int) *SolvePool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &SolvePool{
		jobs: make(chan func()),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// Run 在工作池上执行任务并等待完成
//
// 等待入池阶段响应取消；任务一旦开始执行就运行到结束，
// 运行时长由求解器自身的时限控制。
func (p *SolvePool) Run(ctx context.Context, job func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		job()
	}
	select {
	case p.jobs <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// Close 关闭工作池并等待在途任务结束
func (p *SolvePool) Close() {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.jobs)
	p.wg.Wait()
}
