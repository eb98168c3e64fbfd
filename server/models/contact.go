package models

import (
	"gorm.io/gorm"
)

var contactUpdatableFields = []string{"name",
	"surname",
	"email",
	"mobile_phone",
	"work_phone",
	"home_phone",
	"birthdate",
	"is_favorite",
	"facebook",
	"instagram",
	"tiktok",
}

type Contact struct {
	BaseModel
	UserID          uint     `json:"user_id" gorm:"not null;index"`
	Name            string   `json:"name" validate:"required,min=3,max=20" gorm:"not null;size:20"`
	Surname         string   `json:"surname" validate:"omitempty,min=3,max=20" gorm:"size:20"`
	Email           string   `json:"email" validate:"omitempty,email"`
	MobilePhone     string   `json:"mobile_phone" validate:"omitempty,phone_number" gorm:"size:25"`
	WorkPhone       string   `json:"work_phone" validate:"omitempty,phone_number" gorm:"size:25"`
	HomePhone       string   `json:"home_phone" validate:"omitempty,phone_number" gorm:"size:25"`
	Birthdate       *Date    `json:"birthdate" gorm:"type:date"`
	IsFavorite      bool     `json:"is_favorite" gorm:"default:false"`
	Facebook        string   `json:"facebook" validate:"omitempty,facebook_url"`
	Instagram       string   `json:"instagram" validate:"omitempty,instagram_url"`
	Tiktok          string   `json:"tiktok" validate:"omitempty,tiktok_url"`
	CalendarEventID string   `json:"-"`
	Address         *Address `json:"address,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// FullName is the name followed by the surname, if any
func (contact *Contact) FullName() string {
	if contact.Surname == "" {
		return contact.Name
	}
	return contact.Name + " " + contact.Surname
}

// AddContact stores contact and its address (an empty one if none was given)
// for user in a single transaction
func (user *User) AddContact(contact *Contact) error {
	contact.UserID = user.ID
	if contact.Address == nil {
		contact.Address = &Address{}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(contact).Error
	})
}

// UpdateContact overwrites the editable fields of the user's contact and its address
func (user *User) UpdateContact(contactID interface{}, data *Contact) error {
	return db.Transaction(func(tx *gorm.DB) error {
		existing := Contact{}
		err := tx.Preload("Address").First(&existing, "id = ? AND user_id = ?", contactID, user.ID).Error
		if err != nil {
			return err
		}

		err = tx.Model(&existing).Select(contactUpdatableFields).Updates(data).Error
		if err != nil {
			return err
		}

		address := Address{}
		if data.Address != nil {
			address = *data.Address
		}
		address.ContactID = existing.ID

		if existing.Address == nil {
			return tx.Create(&address).Error
		}

		return tx.Model(existing.Address).Select(addressUpdatableFields).Updates(&address).Error
	})
}

// DeleteContact removes the user's contact together with its address
func (user *User) DeleteContact(contactID interface{}) (*Contact, error) {
	contact := Contact{}

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&contact, "id = ? AND user_id = ?", contactID, user.ID).Error
		if err != nil {
			return err
		}

		err = tx.Where("contact_id = ?", contact.ID).Delete(&Address{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&contact).Error
	})
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

// FindContact returns the user's contact with its address
func FindContact(userID, contactID interface{}) (*Contact, error) {
	contact := Contact{}
	err := db.Preload("Address").First(&contact, "id = ? AND user_id = ?", contactID, userID).Error
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

// FetchContacts returns all of the user's contacts ordered by name, with addresses
func FetchContacts(userID interface{}) ([]Contact, error) {
	contacts := []Contact{}
	err := db.Preload("Address").Where("user_id = ?", userID).Order("name").Order("id").Find(&contacts).Error
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

// FetchAddresses returns the addresses of all of the user's contacts
func FetchAddresses(userID interface{}) ([]Address, error) {
	addresses := []Address{}
	ownedContactIDs := db.Model(&Contact{}).Select("id").Where("user_id = ?", userID)

	err := db.Where("contact_id IN (?)", ownedContactIDs).Find(&addresses).Error
	if err != nil {
		return nil, err
	}

	return addresses, nil
}

func CountContacts(userID interface{}) (int64, error) {
	var total int64
	err := db.Model(&Contact{}).Where("user_id = ?", userID).Count(&total).Error
	return total, err
}

func SetCalendarEventID(contactID interface{}, eventID string) error {
	return db.Model(&Contact{}).Where("id = ?", contactID).Update("calendar_event_id", eventID).Error
}
