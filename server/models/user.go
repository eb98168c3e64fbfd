package models

import (
	"errors"
	"fmt"

	"github.com/xrendezvous/ConnectiveApp/server/auth"
	"gorm.io/gorm"
)

var (
	allFieldsExceptPassword = []string{"id",
		"username",
		"email",
		"phone_number",
		"role_id",
		"created_at",
		"updated_at",
	}

	updatableFields = []string{"email",
		"phone_number",
		"password",
	}
)

type User struct {
	BaseModel
	Username        string           `json:"username" validate:"required,min=3,max=50" gorm:"not null;unique;size:50"`
	Email           string           `json:"email" validate:"required,email,max=320" gorm:"not null;unique"`
	PhoneNumber     string           `json:"phone_number" validate:"omitempty,phone_number" gorm:"size:25"`
	Password        string           `json:"password,omitempty" validate:"required,password" gorm:"not null"`
	RoleID          uint             `json:"role_id" gorm:"null"`
	ReminderSetting *ReminderSetting `json:"reminder_setting,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Contacts        []Contact        `json:"contacts,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Notes           []Note           `json:"notes,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tags            []Tag            `json:"tags,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (user *User) Update(data map[string]interface{}) error {
	if data["password"] != nil {
		passwordHash, err := auth.HashPassword(fmt.Sprintf("%v", data["password"]))
		if err != nil {
			return err
		}
		data["password"] = passwordHash
	}

	return db.Model(&User{}).Where("id = ?", user.ID).Select(updatableFields).Updates(data).Error
}

func (user *User) UpdateReminderSetting(data map[string]interface{}) error {
	return db.Model(&ReminderSetting{}).Where("user_id = ?", user.ID).Updates(data).Error
}

func (user *User) IsAdmin() (bool, error) {
	if user.RoleID == 0 {
		return false, nil
	}

	adminRole, err := FindRole(ADMIN_USER_ROLE)
	if err != nil {
		return false, err
	}

	return adminRole.ID == user.RoleID, nil
}

func (user *User) IsReminderEnabled() (bool, error) {
	setting, err := FindReminderSetting(user.ID)
	if err != nil {
		return false, err
	}

	return setting.Active, nil
}

func FindUserBy(field string, value interface{}) (*User, error) {
	user := User{}
	err := db.Select(allFieldsExceptPassword).First(&user, fmt.Sprintf("%v = ?", field), value).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func FindUserWithReminderSetting(userID interface{}) (*User, error) {
	user := User{}
	err := db.Preload("ReminderSetting").Select(allFieldsExceptPassword).First(&user, userID).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindUserCredentials returns the id and password hash for username
func FindUserCredentials(username string) (uint, string, error) {
	user := User{}
	err := db.Select("id", "password").First(&user, "username = ?", username).Error
	if err != nil {
		return 0, "", err
	}

	return user.ID, user.Password, nil
}

// CreateUser hashes the user's password and stores the user with a disabled
// birthday reminder. The very first account becomes an admin.
func CreateUser(user *User) error {
	passwordHash, err := auth.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = passwordHash

	roleName := BASIC_USER_ROLE
	exists, err := AtLeastOneUserExists()
	if err != nil {
		return err
	}
	if !exists {
		roleName = ADMIN_USER_ROLE
	}

	role, err := FindRole(roleName)
	if err != nil {
		return err
	}
	user.RoleID = role.ID

	user.ReminderSetting = &ReminderSetting{CronExpression: DEFAULT_REMINDER_CRON_EXPRESSION}
	return db.Create(user).Error
}

// UsernameOrEmailTaken reports whether another account already uses username or email
func UsernameOrEmailTaken(username, email string) (bool, error) {
	var count int64
	err := db.Model(&User{}).Where("username = ? OR email = ?", username, email).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// DeleteUser removes the user and everything they own
func DeleteUser(id interface{}) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("contact_id IN (?)", tx.Model(&Contact{}).Select("id").Where("user_id = ?", id)).
			Delete(&Address{}).Error
		if err != nil {
			return err
		}

		err = tx.Exec("DELETE FROM note_tags WHERE note_id IN (?)",
			tx.Model(&Note{}).Select("id").Where("user_id = ?", id)).Error
		if err != nil {
			return err
		}

		for _, model := range []interface{}{&Contact{}, &Note{}, &Tag{}, &ReminderSetting{}} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&User{}, id).Error
	})
}

func AtLeastOneUserExists() (bool, error) {
	err := db.First(&User{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func UsersWithActiveReminder() ([]User, error) {
	users := []User{}

	// Get users with an 'active' reminder & include their reminder_settings
	activeUserIDs := db.Model(&ReminderSetting{}).Select("user_id").Where("active = ?", true)
	err := db.Preload("ReminderSetting").Select(allFieldsExceptPassword).
		Where("id IN (?)", activeUserIDs).Find(&users).Error

	if err != nil {
		return nil, err
	}

	return users, nil
}
