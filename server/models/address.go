package models

var addressUpdatableFields = []string{"country", "city", "address"}

// Address belongs to exactly one contact and is removed with it
type Address struct {
	BaseModel
	ContactID uint   `json:"contact_id" gorm:"not null;index"`
	Country   string `json:"country" validate:"max=20" gorm:"size:20"`
	City      string `json:"city" validate:"max=20" gorm:"size:20"`
	Line      string `json:"address" validate:"max=100" gorm:"column:address;size:100"`
}
