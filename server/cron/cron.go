package cron

import (
	"time"

	"github.com/go-co-op/gocron"
	robfigcron "github.com/robfig/cron/v3"
)

// NewCronScheduler creates a scheduler running in timeZone, falling back
// to UTC when the zone is unknown. Job tags must be unique.
func NewCronScheduler(timeZone string) *gocron.Scheduler {
	location, err := time.LoadLocation(timeZone)
	if err != nil {
		location = time.UTC
	}

	scheduler := gocron.NewScheduler(location)
	scheduler.TagsUnique()

	return scheduler
}

// ValidateExpression checks a standard 5 field cron expression, the format
// gocron's Cron() expects
func ValidateExpression(expression string) error {
	_, err := robfigcron.ParseStandard(expression)
	return err
}
