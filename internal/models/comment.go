package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a rated top-level comment on an annonce, or an unrated reply
// when ParentCommentID is set. Replies always carry rating 0.
type Comment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content         string     `gorm:"size:1000;not null" json:"content"`
	Rating          int        `gorm:"not null" json:"rating"`
	AnnonceID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"annonceId"`
	Annonce         *Annonce   `gorm:"foreignKey:AnnonceID" json:"-"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	User            *User      `gorm:"foreignKey:UserID" json:"-"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid;index" json:"parentCommentId"`
	Replies         []Comment  `gorm:"foreignKey:ParentCommentID" json:"replies,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsReply reports whether this comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
