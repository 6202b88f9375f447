package renderer

import (
	"context"
	"math/rand"
	"runtime"
	"sync"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

// RowTask asks a worker to render one image row
type RowTask struct {
	Y      int
	Pixels []PixelStats // Row of the shared accumulation buffer to write to
}

// RowResult reports a finished row
type RowResult struct {
	Y     int
	Stats RenderStats
	Error error
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker renders rows with its own arena. Samplers are seeded per row so
// the image does not depend on which worker picked up which row.
type Worker struct {
	ID          int
	raytracer   *Raytracer
	arena       *material.Arena
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a pool for rt with room for maxTasks queued rows
func NewWorkerPool(rt *Raytracer, numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, maxTasks),
		resultQueue: make(chan RowResult, maxTasks),
		numWorkers:  numWorkers,
	}
	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   rt,
			arena:       material.NewArena(),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}
	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop waits for the queued rows to finish and closes the results
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask queues a row
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// Results returns the channel of finished rows, closed by Stop
func (wp *WorkerPool) Results() <-chan RowResult {
	return wp.resultQueue
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := ctx.Err(); err != nil {
			w.resultQueue <- RowResult{Y: task.Y, Error: err}
			continue
		}
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(w.raytracer.config.Seed + int64(task.Y))))
		stats := w.raytracer.RenderRow(task.Y, task.Pixels, sampler, w.arena)
		w.resultQueue <- RowResult{Y: task.Y, Stats: stats}
	}
}
