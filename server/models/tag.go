package models

import (
	"errors"
	"strings"
)

var ErrDuplicateTag = errors.New("a tag with this name already exists")

// Tag labels notes. Names are unique per owner.
type Tag struct {
	BaseModel
	UserID uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_tags_user_name"`
	Name   string `json:"name" validate:"required,min=3,max=25" gorm:"not null;size:25;uniqueIndex:idx_tags_user_name"`
}

func (user *User) AddTag(tag *Tag) error {
	tag.UserID = user.ID
	tag.Name = strings.TrimSpace(tag.Name)

	var count int64
	err := db.Model(&Tag{}).Where("user_id = ? AND name = ?", user.ID, tag.Name).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrDuplicateTag
	}

	return db.Create(tag).Error
}

func FetchTags(userID interface{}) ([]Tag, error) {
	tags := []Tag{}
	err := db.Where("user_id = ?", userID).Order("name").Find(&tags).Error
	if err != nil {
		return nil, err
	}

	return tags, nil
}

// TagsByNames returns the user's tags whose names are in names. Unknown names are ignored.
func TagsByNames(userID interface{}, names []string) ([]Tag, error) {
	tags := []Tag{}
	if len(names) == 0 {
		return tags, nil
	}

	err := db.Where("user_id = ? AND name IN ?", userID, names).Order("name").Find(&tags).Error
	if err != nil {
		return nil, err
	}

	return tags, nil
}
