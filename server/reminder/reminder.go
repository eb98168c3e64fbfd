package reminder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xrendezvous/ConnectiveApp/colors"
	"github.com/xrendezvous/ConnectiveApp/server/contactbook"
	"github.com/xrendezvous/ConnectiveApp/server/logger"
	"github.com/xrendezvous/ConnectiveApp/server/models"
	"github.com/xrendezvous/ConnectiveApp/server/work"
	"gorm.io/gorm"
)

const (
	SEND_BIRTHDAY_REMINDER = "sendBirthdayReminder"
	REMINDER_PREFIX        = "birthday_reminder"
)

var logg = logger.NewLogger()

type MessageSender interface {
	SendMessage(to, msg string) error
}

// Scheduler enqueues a birthday reminder job for every user with an active
// reminder, following the cron expression of their reminder setting
type Scheduler struct {
	workerPool *work.WorkerPoolAdapter
	sender     MessageSender
	now        func() time.Time

	// Used instead of the users' cron expressions when set
	cronExpressionOverride string
}

func NewScheduler(
	workerPool *work.WorkerPoolAdapter,
	sender MessageSender,
	now func() time.Time,
	cronExpressionOverride string) (*Scheduler, error) {

	scheduler := &Scheduler{
		workerPool:             workerPool,
		sender:                 sender,
		now:                    now,
		cronExpressionOverride: cronExpressionOverride,
	}

	err := workerPool.Register(SEND_BIRTHDAY_REMINDER, scheduler.sendBirthdayReminder)
	if err != nil {
		return nil, err
	}

	return scheduler, nil
}

// ScheduleReminders schedules reminders for every user with an active reminder
func (s *Scheduler) ScheduleReminders() error {
	users, err := models.UsersWithActiveReminder()
	if err != nil {
		return err
	}

	for _, user := range users {
		err = s.ScheduleReminder(user.ID, user.ReminderSetting.CronExpression)
		if err != nil {
			logg.Error(err)
		}
	}
	logg.Infof(colors.Blue("%v birthday reminder(s) scheduled"), len(users))

	return nil
}

// ScheduleReminder (re)schedules the reminder of a single user
func (s *Scheduler) ScheduleReminder(userID uint, cronExpression string) error {
	if s.cronExpressionOverride != "" {
		cronExpression = s.cronExpressionOverride
	}

	err := s.UnscheduleReminder(userID)
	if err != nil {
		return err
	}

	return s.workerPool.PeriodicallyPerform(cronExpression, work.JobParams{
		Name:    JobName(userID),
		Handler: SEND_BIRTHDAY_REMINDER,
		Args:    map[string]interface{}{"user_id": userID},
	})
}

func (s *Scheduler) UnscheduleReminder(userID uint) error {
	return s.workerPool.RemovePeriodicJob(JobName(userID))
}

func (s *Scheduler) IsScheduled(userID uint) bool {
	return s.workerPool.IsPeriodicJobScheduled(JobName(userID))
}

func (s *Scheduler) sendBirthdayReminder(args map[string]interface{}) error {
	userID, err := userIDFromArgs(args)
	if err != nil {
		return err
	}

	user, err := models.FindUserBy("id", userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logg.Warnf("sendBirthdayReminder: user %v no longer exists", userID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("sendBirthdayReminder: %v", err)
	}

	if user.PhoneNumber == "" {
		return nil
	}

	contacts, err := models.FetchContacts(user.ID)
	if err != nil {
		return fmt.Errorf("sendBirthdayReminder: %v", err)
	}

	birthdays := contactbook.Compute(user.ID, contacts, s.now(), contactbook.PeriodToday)
	if len(birthdays.Flat) == 0 {
		return nil
	}

	err = s.sender.SendMessage(user.PhoneNumber, BirthdayMessage(user.Username, birthdays.Flat))
	if err != nil {
		return fmt.Errorf("sendBirthdayReminder: %v", err)
	}

	return nil
}

// BirthdayMessage lists the contacts celebrating a birthday today
func BirthdayMessage(username string, contacts []models.Contact) string {
	names := make([]string, 0, len(contacts))
	for _, contact := range contacts {
		names = append(names, contact.FullName())
	}

	return fmt.Sprintf("Hi %v, today is the birthday of: %v. Don't forget to congratulate them!",
		username, strings.Join(names, ", "))
}

func JobName(userID interface{}) string {
	return fmt.Sprintf("%v_%v", REMINDER_PREFIX, userID)
}

// Job args are decoded from JSON, so numbers arrive as float64
func userIDFromArgs(args map[string]interface{}) (uint, error) {
	switch value := args["user_id"].(type) {
	case float64:
		return uint(value), nil
	case uint:
		return value, nil
	case int:
		return uint(value), nil
	case string:
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid user_id %q: %v", value, err)
		}
		return uint(id), nil
	default:
		return 0, fmt.Errorf("invalid user_id %v", args["user_id"])
	}
}
