package work

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-co-op/gocron"
	"github.com/xrendezvous/ConnectiveApp/server/cron"
	"github.com/xrendezvous/ConnectiveApp/server/models"
)

const MAX_CONCURRENCY = 1

var (
	prodBackoffsInSeconds = []int64{0, 10, 100, 120}
	devBackoffsInSeconds  = []int64{0, 1}

	prodRetryDelaysInSeconds = []int64{30, 300, 1800}
	devRetryDelaysInSeconds  = []int64{1}
)

type WorkerPoolAdapter struct {
	cronScheduler *gocron.Scheduler
	pool          *workerPool
	periodicJobs  map[string]bool
	mu            sync.Mutex
}

// NewWorkerAdapter returns a worker pool whose periodic jobs run in timeZone.
// In devMode idle workers poll the queue every second & failed jobs are
// retried a second later.
func NewWorkerAdapter(timeZone string, devMode bool) (*WorkerPoolAdapter, error) {
	backoffs, retryDelays := prodBackoffsInSeconds, prodRetryDelaysInSeconds
	if devMode {
		backoffs, retryDelays = devBackoffsInSeconds, devRetryDelaysInSeconds
	}

	pool, err := newWorkerPool(MAX_CONCURRENCY, backoffs, retryDelays)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolAdapter{
		cronScheduler: cron.NewCronScheduler(timeZone),
		pool:          pool,
		periodicJobs:  map[string]bool{},
	}, nil
}

// Start starts the cron scheduler & worker pool
func (adapter *WorkerPoolAdapter) Start() {
	logg.Info("Starting cron scheduler & worker pool")
	adapter.cronScheduler.StartAsync()
	adapter.pool.start()
}

// Stop stops the cron scheduler & worker pool
func (adapter *WorkerPoolAdapter) Stop() {
	logg.Info("Stopping cron scheduler & worker pool")
	adapter.cronScheduler.Stop()
	adapter.pool.stop()
}

// Register binds a name to a handler.
func (adapter *WorkerPoolAdapter) Register(name string, handler Handler) error {
	return adapter.pool.registerHandler(name, handler)
}

// Perform sends a new job to the queue, to be executed as soon as a worker is available
func (adapter *WorkerPoolAdapter) Perform(job JobParams) error {
	logg.Infof("Enqueuing job: %v", job.Name)

	err := adapter.pool.enqueue(job)
	if errors.Is(err, models.ErrDuplicateJob) {
		logg.Warnf("Duplicate job already in queue for: %v", job.Name)
		return nil
	}

	if err != nil {
		return fmt.Errorf("error enqueuing job: %v, %v", job.Name, err)
	}

	return nil
}

// PeriodicallyPerform adds a job to the queue (to be executed)
// periodically, based on the 'cronExpression' expression provided.
// The job name is used as the cron tag, so it must be unique.
func (adapter *WorkerPoolAdapter) PeriodicallyPerform(cronExpression string, job JobParams) error {
	err := cron.ValidateExpression(cronExpression)
	if err != nil {
		return fmt.Errorf("unable to schedule %v with %q: %v", job.Name, cronExpression, err)
	}

	_, err = adapter.cronScheduler.Cron(cronExpression).Tag(job.Name).
		Do(
			func(job JobParams) {
				err := adapter.Perform(job)
				if err != nil {
					logg.Error(err)
				}
			},
			job,
		)
	if err != nil {
		return fmt.Errorf("unable to schedule %v with %q: %v", job.Name, cronExpression, err)
	}

	adapter.mu.Lock()
	adapter.periodicJobs[job.Name] = true
	adapter.mu.Unlock()

	return nil
}

func (adapter *WorkerPoolAdapter) RemovePeriodicJob(jobName string) error {
	adapter.mu.Lock()
	defer adapter.mu.Unlock()

	if !adapter.periodicJobs[jobName] {
		return nil
	}
	delete(adapter.periodicJobs, jobName)

	return adapter.cronScheduler.RemoveByTag(jobName)
}

// IsPeriodicJobScheduled reports whether a periodic job with jobName exists
func (adapter *WorkerPoolAdapter) IsPeriodicJobScheduled(jobName string) bool {
	adapter.mu.Lock()
	defer adapter.mu.Unlock()

	return adapter.periodicJobs[jobName]
}
