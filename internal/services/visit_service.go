package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/itssafa/immoplatform/internal/models"
	"gorm.io/gorm"
)

type VisitService struct {
	db *gorm.DB
}

func NewVisitService(db *gorm.DB) *VisitService {
	return &VisitService{db: db}
}

// Record appends one page hit. Called off the request path; failures are
// logged and swallowed so analytics can never break a request.
func (s *VisitService) Record(pageURL, ip, userAgent, sessionID string, userID *uuid.UUID) {
	now := time.Now()
	visit := models.PlatformVisit{
		VisitDate:      now.Truncate(24 * time.Hour),
		VisitTimestamp: now,
		IPAddress:      ip,
		UserAgent:      userAgent,
		SessionID:      sessionID,
		UserID:         userID,
		PageURL:        pageURL,
	}
	if err := s.db.Create(&visit).Error; err != nil {
		slog.Warn("failed to record platform visit", "page", pageURL, "error", err)
	}
}

// UpdateDuration backfills how long the visitor stayed on the page. The most
// recent visit of the session is the one still open.
func (s *VisitService) UpdateDuration(sessionID string, seconds int64) error {
	if sessionID == "" || seconds < 0 {
		return nil
	}

	var visit models.PlatformVisit
	err := s.db.
		Where("session_id = ?", sessionID).
		Order("visit_timestamp DESC").
		First(&visit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.Model(&visit).Update("duration_seconds", seconds).Error
}
