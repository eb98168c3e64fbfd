package models

// At 08:00 every day
const DEFAULT_REMINDER_CRON_EXPRESSION = "0 8 * * *"

// ReminderSetting controls the daily birthday SMS a user receives
type ReminderSetting struct {
	BaseModel
	UserID         uint   `json:"user_id" gorm:"not null;unique"`
	Active         bool   `json:"active" gorm:"default:false"`
	CronExpression string `json:"cron_expression" gorm:"not null"`
}

func FindReminderSetting(userID interface{}) (*ReminderSetting, error) {
	setting := ReminderSetting{}
	err := db.First(&setting, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}

	return &setting, nil
}
