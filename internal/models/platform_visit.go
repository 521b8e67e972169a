package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlatformVisit is an append-only log of page hits. Rows are never mutated
// except to backfill DurationSeconds.
type PlatformVisit struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	VisitDate       time.Time  `gorm:"type:date;not null;index" json:"visitDate"`
	VisitTimestamp  time.Time  `gorm:"not null" json:"visitTimestamp"`
	IPAddress       string     `gorm:"size:45" json:"ipAddress"`
	UserAgent       string     `gorm:"size:500" json:"userAgent"`
	SessionID       string     `gorm:"size:100;index" json:"sessionId"`
	UserID          *uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	PageURL         string     `gorm:"size:500;index" json:"pageUrl"`
	DurationSeconds *int64     `json:"durationSeconds"`
}

func (v *PlatformVisit) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// SearchEvent records one listing search by a subscribed client. The daily
// quota is enforced by counting today's rows for the user.
type SearchEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_search_events_user_date" json:"userId"`
	SearchDate time.Time `gorm:"type:date;not null;index:idx_search_events_user_date" json:"searchDate"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e *SearchEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
