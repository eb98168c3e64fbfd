package models

import (
	"strings"

	"gorm.io/gorm"
)

type Note struct {
	BaseModel
	UserID uint   `json:"user_id" gorm:"not null;index"`
	Title  string `json:"title" validate:"required,min=5,max=50" gorm:"not null;size:50"`
	Body   string `json:"body" validate:"required,min=10,max=150" gorm:"not null;size:150"`
	IsDone bool   `json:"is_done" gorm:"default:false"`
	Tags   []Tag  `json:"tags" gorm:"many2many:note_tags;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// AddNote stores note for user, tagged with the user's tags named in tagNames
func (user *User) AddNote(note *Note, tagNames []string) error {
	note.UserID = user.ID

	return db.Transaction(func(tx *gorm.DB) error {
		tags := []Tag{}
		if len(tagNames) > 0 {
			err := tx.Where("user_id = ? AND name IN ?", user.ID, tagNames).Find(&tags).Error
			if err != nil {
				return err
			}
		}

		note.Tags = tags
		return tx.Create(note).Error
	})
}

// UpdateNote overwrites the title & body of the user's note and replaces its tags
func (user *User) UpdateNote(noteID interface{}, data *Note, tagNames []string) (*Note, error) {
	note := Note{}

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&note, "id = ? AND user_id = ?", noteID, user.ID).Error
		if err != nil {
			return err
		}

		err = tx.Model(&note).Select("title", "body").Updates(data).Error
		if err != nil {
			return err
		}

		tags := []Tag{}
		if len(tagNames) > 0 {
			err = tx.Where("user_id = ? AND name IN ?", user.ID, tagNames).Find(&tags).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&note).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}

	return FindNote(user.ID, note.ID)
}

// MarkNoteDone flags the user's note as done. It reports whether a note was updated.
func (user *User) MarkNoteDone(noteID interface{}) (bool, error) {
	res := db.Model(&Note{}).Where("id = ? AND user_id = ?", noteID, user.ID).Update("is_done", true)
	return res.RowsAffected > 0, res.Error
}

func (user *User) DeleteNote(noteID interface{}) error {
	return db.Transaction(func(tx *gorm.DB) error {
		note := Note{}
		err := tx.First(&note, "id = ? AND user_id = ?", noteID, user.ID).Error
		if err != nil {
			return err
		}

		err = tx.Model(&note).Association("Tags").Clear()
		if err != nil {
			return err
		}

		return tx.Delete(&note).Error
	})
}

func FindNote(userID, noteID interface{}) (*Note, error) {
	note := Note{}
	err := db.Preload("Tags").First(&note, "id = ? AND user_id = ?", noteID, userID).Error
	if err != nil {
		return nil, err
	}

	return &note, nil
}

func FetchNotes(userID interface{}) ([]Note, error) {
	notes := []Note{}
	err := db.Preload("Tags").Where("user_id = ?", userID).Order("id").Find(&notes).Error
	if err != nil {
		return nil, err
	}

	return notes, nil
}

// SearchNotes returns the user's notes whose title or body contains query, ignoring case
func SearchNotes(userID interface{}, query string) ([]Note, error) {
	notes := []Note{}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	err := db.Preload("Tags").
		Where("user_id = ? AND (LOWER(title) LIKE ? OR LOWER(body) LIKE ?)", userID, pattern, pattern).
		Order("id").Find(&notes).Error
	if err != nil {
		return nil, err
	}

	return notes, nil
}

// NotesWithAnyTag returns the user's notes carrying at least one of the named tags, each note once
func NotesWithAnyTag(userID interface{}, tagNames []string) ([]Note, error) {
	notes := []Note{}
	if len(tagNames) == 0 {
		return notes, nil
	}

	taggedNoteIDs := db.Table("note_tags").Select("note_tags.note_id").
		Joins("INNER JOIN tags ON tags.id = note_tags.tag_id").
		Where("tags.user_id = ? AND tags.name IN ?", userID, tagNames)

	err := db.Preload("Tags").Where("user_id = ? AND id IN (?)", userID, taggedNoteIDs).
		Order("id").Find(&notes).Error
	if err != nil {
		return nil, err
	}

	return notes, nil
}
