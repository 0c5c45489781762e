package scan

import (
	"sync"

	"github.com/zoeyai/itemscan/internal/logger"
)

// Job 一个工作单元
type Job func()

// WorkerPool 固定数量协程执行任务
type WorkerPool struct {
	workerCount int
	jobs        chan Job
	wg          sync.WaitGroup
	started     bool
	stopped     bool
	mu          sync.Mutex
}

// NewWorkerPool 创建工作池, workerCount <= 0 时使用 DefaultWorkers
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = DefaultWorkers()
	}

	return &WorkerPool{
		workerCount: workerCount,
		jobs:        make(chan Job, workerCount*2),
	}
}

// Start 启动工作协程, 重复调用无效
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.started {
		return
	}
	wp.started = true

	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}

	logger.Debug("工作池已启动: %d 个协程", wp.workerCount)
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for job := range wp.jobs {
		job()
	}
}

// Submit 提交任务, 队列满时阻塞
// 必须在 Start 之后, Stop 之前调用
func (wp *WorkerPool) Submit(job Job) {
	wp.jobs <- job
}

// Stop 关闭任务队列并等待所有任务完成
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if !wp.started || wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	wp.mu.Unlock()

	close(wp.jobs)
	wp.wg.Wait()
	logger.Debug("工作池已停止")
}

// Size 工作协程数
func (wp *WorkerPool) Size() int {
	return wp.workerCount
}
