package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const JOB_STATUS_JOIN_QUERY = "INNER JOIN job_statuses ON job_statuses.id = jobs.job_status_id AND job_statuses.name = ?"

var ErrDuplicateJob = errors.New("job with the given name already exists in queue")

type Job struct {
	BaseModel
	Fails       int        `json:"fails"`
	Name        string     `json:"name"`
	Handler     string     `json:"handler"`
	Args        string     `json:"args"`
	LastError   string     `json:"last_error"`
	Claimed     bool       `json:"claimed" gorm:"default:false"`
	EnqueuedAt  time.Time  `json:"enqueued_at"`
	JobStatusID uint       `json:"job_status_id"`
	JobStatus   *JobStatus `json:"status,omitempty"`
}

// MarkAsClaimed moves the job to 'in-progress' if no other worker got to it
// first. It reports whether this call claimed the job.
func (job *Job) MarkAsClaimed() (bool, error) {
	inProgressStatus, err := FindJobStatus(IN_PROGRESS_JOB)
	if err != nil {
		return false, err
	}

	res := db.Model(&Job{}).Where("id = ? AND claimed = ?", job.ID, false).Updates(map[string]interface{}{
		"claimed":       true,
		"job_status_id": inProgressStatus.ID,
	})

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// Update writes data to the job's row only, leaving any loaded JobStatus untouched
func (job *Job) Update(data map[string]interface{}) error {
	return db.Model(&Job{}).Where("id = ?", job.ID).Updates(data).Error
}

// CreateUniqueJobByName adds a job in 'status' unless a job with the same
// name is already enqueued, scheduled or in-progress, in which case
// ErrDuplicateJob is returned
func CreateUniqueJobByName(name, handler, args, status string, enqueuedAt time.Time) error {
	jobStatus, err := FindJobStatus(status)
	if err != nil {
		return err
	}

	activeStatusIDs := db.Model(&JobStatus{}).Select("id").
		Where("name IN ?", []string{ENQUEUED_JOB, IN_PROGRESS_JOB, SCHEDULED_JOB})

	var count int64
	err = db.Model(&Job{}).Where("name = ? AND job_status_id IN (?)", name, activeStatusIDs).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrDuplicateJob
	}

	return db.Create(&Job{
		Name:        name,
		Handler:     handler,
		Args:        args,
		EnqueuedAt:  enqueuedAt,
		JobStatusID: jobStatus.ID,
	}).Error
}

// NextEnqueuedJob returns the oldest unclaimed job in the 'enqueued' queue
func NextEnqueuedJob() (*Job, error) {
	job := Job{}
	err := db.Joins(JOB_STATUS_JOIN_QUERY, ENQUEUED_JOB).
		Where("jobs.claimed = ?", false).
		Order("jobs.enqueued_at").Order("jobs.id").First(&job).Error
	if err != nil {
		return nil, err
	}

	return &job, nil
}

// FirstScheduledJobToBeQueued returns the first scheduled job whose time has come
func FirstScheduledJobToBeQueued() (*Job, error) {
	job := Job{}
	err := db.Joins(JOB_STATUS_JOIN_QUERY, SCHEDULED_JOB).
		Where("jobs.enqueued_at <= ?", time.Now()).
		Order("jobs.enqueued_at").Order("jobs.id").First(&job).Error
	if err != nil {
		return nil, err
	}

	return &job, nil
}

// LastJobLastUpdated returns the last job of 'status' that was last
// updated at least 'minutesAgo' minutes ago
func LastJobLastUpdated(minutesAgo uint, status string) (*Job, error) {
	cutoff := time.Now().Add(-time.Duration(minutesAgo) * time.Minute)

	job := Job{}
	err := db.Joins(JOB_STATUS_JOIN_QUERY, status).
		Where("jobs.updated_at <= ?", cutoff).Last(&job).Error
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func FindJob(id interface{}) (*Job, error) {
	job := Job{}
	err := db.Preload("JobStatus").First(&job, id).Error
	if err != nil {
		return nil, err
	}

	return &job, nil
}

// FetchJobs returns a page of jobs, newest first, optionally filtered by status
func FetchJobs(page int, status string) ([]Job, *Paging, error) {
	var total int64
	jobs := []Job{}

	countQuery := db.Model(&Job{})
	findQuery := db.Scopes(paginate(page, MAX_PAGE_SIZE)).Preload("JobStatus").Order("jobs.id desc")
	if status != "" {
		countQuery = countQuery.Joins(JOB_STATUS_JOIN_QUERY, status)
		findQuery = findQuery.Joins(JOB_STATUS_JOIN_QUERY, status)
	}

	err := countQuery.Count(&total).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	err = findQuery.Find(&jobs).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	return jobs, newPaging(int64(page), MAX_PAGE_SIZE, total), nil
}

func CurrentJobsStats() (*JobsStats, error) {
	stats := JobsStats{}
	counters := map[string]*int64{
		ENQUEUED_JOB:    &stats.EnqueuedJobCount,
		IN_PROGRESS_JOB: &stats.InProgressJobCount,
		SUCCESSFUL_JOB:  &stats.SuccessfulJobCount,
		DEAD_JOB:        &stats.DeadJobCount,
		SCHEDULED_JOB:   &stats.ScheduledJobCount,
	}

	for status, counter := range counters {
		err := db.Joins(JOB_STATUS_JOIN_QUERY, status).Model(&Job{}).Count(counter).Error
		if err != nil {
			return nil, err
		}
	}

	return &stats, nil
}
