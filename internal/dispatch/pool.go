// Package dispatch provides a bounded worker pool for the Mirror
// Controller's per-event tasks. Unbounded per-event goroutines satisfy
// spec.md §5 on their own, but a bounded pool is explicitly allowed
// provided it preserves per-path spawn order; Pool guarantees this by
// always routing the same source path to the same worker.
package dispatch

import (
	"hash/fnv"
	"sync"

	"github.com/hbomb79/castmirror/pkg/logger"
)

var log = logger.Get("Dispatch")

// Task is a unit of work submitted to the pool. Label and ID exist only
// for log correlation; the pool itself never inspects them.
type Task struct {
	Label string
	ID    string
	Run   func()
}

// Pool is a fixed set of workers, each draining its own task queue in
// FIFO order. Submit routes a task to a worker chosen by hashing its
// shard key (the source path the task concerns), so all tasks for the
// same path land on the same worker and therefore run in the order they
// were submitted, while tasks for distinct paths run concurrently.
type Pool struct {
	queues []chan Task
	wg     sync.WaitGroup
}

// NewPool starts size workers, each with its own buffered queue. size
// must be at least 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{queues: make([]chan Task, size)}
	for i := range p.queues {
		p.queues[i] = make(chan Task, 64)
		p.wg.Add(1)
		go p.drain(p.queues[i])
	}

	return p
}

func (p *Pool) drain(queue chan Task) {
	defer p.wg.Done()
	for task := range queue {
		task.Run()
	}
}

// Submit enqueues task on the worker selected by shardKey (typically the
// absolute source path the task operates on).
func (p *Pool) Submit(shardKey string, task Task) {
	idx := shard(shardKey, len(p.queues))
	p.queues[idx] <- task
}

// Close stops accepting new work and waits for every queued task to
// drain.
func (p *Pool) Close() {
	for _, q := range p.queues {
		close(q)
	}
	p.wg.Wait()
	log.Emit(logger.DEBUG, "Dispatch pool drained\n")
}

func shard(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % n
}
