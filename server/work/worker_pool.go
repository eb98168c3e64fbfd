package work

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/xrendezvous/ConnectiveApp/server/models"
)

type workerPool struct {
	handlers    map[string]Handler
	workers     []*worker
	requeuers   []*requeuer
	concurrency int
	started     bool
	mu          sync.Mutex
}

// newWorkerPool creates 'concurrency' workers plus the in-progress & scheduled
// job requeuers. backoffs are the worker sleep durations (in seconds) used
// while the queue stays empty, retryDelays how long failed jobs wait in the
// scheduled queue before running again.
func newWorkerPool(concurrency int, backoffs, retryDelays []int64) (*workerPool, error) {
	wp := workerPool{handlers: make(map[string]Handler), concurrency: concurrency}

	for i := 0; i < concurrency; i++ {
		wp.workers = append(wp.workers, newWorker(backoffs, retryDelays))
	}

	requeuerBackoff := backoffs[len(backoffs)-1]
	for _, queue := range []string{models.IN_PROGRESS_JOB, models.SCHEDULED_JOB} {
		r, err := newRequeuer(queue, requeuerBackoff)
		if err != nil {
			return nil, err
		}
		wp.requeuers = append(wp.requeuers, r)
	}

	return &wp, nil
}

// registerHandler binds a name to a job handler for all workers in pool
func (wp *workerPool) registerHandler(name string, handler Handler) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.started {
		return fmt.Errorf("unable to register %v: worker pool already started", name)
	}

	if _, ok := wp.handlers[name]; ok {
		return ErrDuplicateHandler
	}
	wp.handlers[name] = handler

	for _, worker := range wp.workers {
		err := worker.registerHandler(name, handler)
		if err != nil && !errors.Is(err, ErrDuplicateHandler) {
			return errors.Wrapf(err, "registering handler %v", name)
		}
	}
	return nil
}

// enqueue adds a job to the queue (to be executed) by creating a DB record
// based on the 'JobParams' provided
func (wp *workerPool) enqueue(job JobParams) error {
	return wp.createJob(job, models.ENQUEUED_JOB, time.Now())
}

func (wp *workerPool) createJob(job JobParams, status string, enqueuedAt time.Time) error {
	if strings.TrimSpace(job.Name) == "" || strings.TrimSpace(job.Handler) == "" {
		return fmt.Errorf("both a name & handler is required for a job")
	}

	argsAsJson, err := json.Marshal(job.Args)
	if err != nil {
		return errors.Wrap(err, "encoding job args")
	}

	// All jobs currently in the queue, scheduled or in-progress have unique names
	return models.CreateUniqueJobByName(job.Name, job.Handler, string(argsAsJson), status, enqueuedAt)
}

// start starts all workers & requeuers in pool
func (wp *workerPool) start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.started {
		return
	}
	wp.started = true

	for _, worker := range wp.workers {
		worker.start()
	}

	for _, r := range wp.requeuers {
		r.start()
	}
}

// stop stops all workers & requeuers in pool i.e jobs will stop being processed
func (wp *workerPool) stop() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.started {
		return
	}

	wg := sync.WaitGroup{}
	for _, w := range wp.workers {
		wg.Add(1)
		go func(w *worker) {
			defer wg.Done()
			w.stop()
		}(w)
	}

	for _, r := range wp.requeuers {
		wg.Add(1)
		go func(r *requeuer) {
			defer wg.Done()
			r.stop()
		}(r)
	}

	wg.Wait()
	wp.started = false
}
