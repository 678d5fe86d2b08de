package motionblend

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// BatchConfig holds batch evaluation configuration.
type BatchConfig struct {
	// Workers is the number of pool goroutines. Zero selects GOMAXPROCS.
	Workers int

	// EnableParallel evaluates rigs concurrently on the worker pool.
	// When false, rigs are evaluated in order on the calling goroutine.
	EnableParallel bool
}

// Validate checks if the configuration is valid.
func (c *BatchConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Batch evaluates many independent rigs per tick. Each Run call returns
// once every job of the tick has finished.
type Batch struct {
	parallel bool
	workers  int
	pool     worker.DynamicWorkerPool
	taskID   int
	closed   bool
	mu       sync.Mutex
}

// NewBatch creates a batch evaluator. A parallel batch owns worker
// goroutines; call Close when done with it.
func NewBatch(config *BatchConfig) (*Batch, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	workers := config.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	b := &Batch{parallel: config.EnableParallel, workers: workers}
	if b.parallel {
		// Workers are reused across ticks and run until Close.
		b.pool = worker.NewDynamicWorkerPool(workers, batchQueueSize, batchIdleTimeout)
	}
	return b, nil
}

// Close stops the worker pool. Run returns ErrBatchClosed afterwards.
// Close is safe to call more than once.
func (b *Batch) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.parallel {
		b.pool.Stop()
	}
}

// Parallel reports whether jobs run on the worker pool.
func (b *Batch) Parallel() bool { return b.parallel }

// Workers returns the pool size.
func (b *Batch) Workers() int { return b.workers }

// Run calls job for every index in [0, n) and waits for all of them.
// Errors from individual jobs are joined, each annotated with its index.
func (b *Batch) Run(n int, job func(i int) error) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrBatchClosed
	}

	if !b.parallel || n <= 1 {
		var errs []error
		for i := range n {
			if err := job(i); err != nil {
				errs = append(errs, fmt.Errorf("rig %d: %w", i, err))
			}
		}
		return errors.Join(errs...)
	}

	// A WaitGroup gives the per-tick barrier; the pool's own Wait blocks
	// until workers idle out.
	var wg sync.WaitGroup
	errs := make([]error, n)

	b.mu.Lock()
	for i := range n {
		wg.Add(1)
		id := b.taskID
		b.taskID++
		b.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				if err := job(i); err != nil {
					errs[i] = fmt.Errorf("rig %d: %w", i, err)
				}
				return nil, nil
			},
		})
	}
	b.mu.Unlock()

	wg.Wait()
	return errors.Join(errs...)
}

// EvaluateInertial runs one tick of every blender. blenders and ticks are
// paired by index.
func EvaluateInertial[F Float](b *Batch, blenders []*InertialBlender[F], ticks []Tick[F]) error {
	if len(blenders) != len(ticks) {
		return fmt.Errorf("%w: %d blenders but %d ticks", ErrInvalidConfig, len(blenders), len(ticks))
	}
	return b.Run(len(blenders), func(i int) error {
		return blenders[i].Evaluate(ticks[i])
	})
}

// EvaluateTransitions runs one tick of every transition.
func EvaluateTransitions[F Float](b *Batch, transitions []*Transition[F], ticks []TransitionTick[F]) error {
	if len(transitions) != len(ticks) {
		return fmt.Errorf("%w: %d transitions but %d ticks", ErrInvalidConfig, len(transitions), len(ticks))
	}
	return b.Run(len(transitions), func(i int) error {
		return transitions[i].Evaluate(ticks[i])
	})
}
