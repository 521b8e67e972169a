package services

import (
	"time"

	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/models"
	"gorm.io/gorm"
)

const dashboardDays = 7

type StatisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{db: db}
}

// Statistics assembles the full admin statistics in one pass. Every aggregate
// defaults to zero when the underlying table is empty.
func (s *StatisticsService) Statistics() (*dto.StatisticsResponse, error) {
	stats := &dto.StatisticsResponse{
		DailyVisits:          map[string]int64{},
		UserTypeDistribution: map[string]int64{},
		MostVisitedPages:     map[string]int64{},
	}

	if err := s.userCounts(stats); err != nil {
		return nil, err
	}
	if err := s.visitCounts(stats); err != nil {
		return nil, err
	}
	err := s.db.Model(&models.Annonce{}).
		Where("status = ?", models.AnnonceActive).
		Count(&stats.TotalAnnoncesPublished).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Dashboard is the reduced summary shared with agencies. It drops the
// admin-only breakdowns (pending accounts, monthly window, top pages).
func (s *StatisticsService) Dashboard() (*dto.DashboardResponse, error) {
	full, err := s.Statistics()
	if err != nil {
		return nil, err
	}
	return &dto.DashboardResponse{
		TotalUsers:             full.TotalUsers,
		TotalClients:           full.TotalClients,
		TotalAgencies:          full.TotalAgencies,
		VerifiedAgencies:       full.VerifiedAgencies,
		TotalVisitsToday:       full.TotalVisitsToday,
		TotalVisitsThisWeek:    full.TotalVisitsThisWeek,
		UniqueVisitorsToday:    full.UniqueVisitorsToday,
		TotalAnnoncesPublished: full.TotalAnnoncesPublished,
		DailyVisits:            full.DailyVisits,
		UserTypeDistribution:   full.UserTypeDistribution,
	}, nil
}

// Weekly is the lighter trailing-week view of the dashboard.
func (s *StatisticsService) Weekly() (*dto.WeeklyStatisticsResponse, error) {
	full := &dto.StatisticsResponse{
		DailyVisits:          map[string]int64{},
		UserTypeDistribution: map[string]int64{},
		MostVisitedPages:     map[string]int64{},
	}
	if err := s.visitCounts(full); err != nil {
		return nil, err
	}
	return &dto.WeeklyStatisticsResponse{
		TotalVisitsThisWeek: full.TotalVisitsThisWeek,
		UniqueVisitorsToday: full.UniqueVisitorsToday,
		DailyVisits:         full.DailyVisits,
	}, nil
}

func (s *StatisticsService) userCounts(stats *dto.StatisticsResponse) error {
	notDeleted := s.db.Model(&models.User{}).Where("status <> ?", models.StatusDeleted)
	if err := notDeleted.Count(&stats.TotalUsers).Error; err != nil {
		return err
	}

	type roleRow struct {
		Role  models.UserRole
		Count int64
	}
	var roles []roleRow
	err := s.db.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Where("status <> ?", models.StatusDeleted).
		Group("role").
		Scan(&roles).Error
	if err != nil {
		return err
	}
	for _, r := range roles {
		stats.UserTypeDistribution[string(r.Role)] = r.Count
		switch r.Role {
		case models.RoleClientAbonne:
			stats.TotalClients = r.Count
		case models.RoleAgence:
			stats.TotalAgencies = r.Count
		case models.RoleAdministrateur:
			stats.TotalAdmins = r.Count
		}
	}

	err = s.db.Model(&models.User{}).
		Where("status = ?", models.StatusActive).
		Count(&stats.ActiveUsers).Error
	if err != nil {
		return err
	}
	err = s.db.Model(&models.User{}).
		Where("status = ?", models.StatusPending).
		Count(&stats.PendingUsers).Error
	if err != nil {
		return err
	}

	err = s.db.Model(&models.AgencyProfile{}).
		Where("verified = ?", true).
		Count(&stats.VerifiedAgencies).Error
	if err != nil {
		return err
	}
	stats.UnverifiedAgencies = stats.TotalAgencies - stats.VerifiedAgencies
	if stats.UnverifiedAgencies < 0 {
		stats.UnverifiedAgencies = 0
	}
	return nil
}

func (s *StatisticsService) visitCounts(stats *dto.StatisticsResponse) error {
	today := time.Now().Truncate(24 * time.Hour)
	weekStart := today.AddDate(0, 0, -6)
	monthStart := today.AddDate(0, 0, -29)

	err := s.db.Model(&models.PlatformVisit{}).
		Where("visit_date = ?", today).
		Count(&stats.TotalVisitsToday).Error
	if err != nil {
		return err
	}
	err = s.db.Model(&models.PlatformVisit{}).
		Where("visit_date >= ?", weekStart).
		Count(&stats.TotalVisitsThisWeek).Error
	if err != nil {
		return err
	}
	err = s.db.Model(&models.PlatformVisit{}).
		Where("visit_date >= ?", monthStart).
		Count(&stats.TotalVisitsThisMonth).Error
	if err != nil {
		return err
	}

	row := struct {
		Uniques int64
		AvgDur  float64
	}{}
	err = s.db.Model(&models.PlatformVisit{}).
		Where("visit_date = ?", today).
		Select("COUNT(DISTINCT session_id) AS uniques").
		Scan(&row).Error
	if err != nil {
		return err
	}
	stats.UniqueVisitorsToday = row.Uniques

	// Average duration is today's sessions only, stale visits would drag it.
	err = s.db.Model(&models.PlatformVisit{}).
		Where("visit_date = ? AND duration_seconds IS NOT NULL", today).
		Select("COALESCE(AVG(duration_seconds), 0) AS avg_dur").
		Scan(&row).Error
	if err != nil {
		return err
	}
	stats.AverageVisitDuration = row.AvgDur

	type dayRow struct {
		Day   time.Time
		Count int64
	}
	var days []dayRow
	err = s.db.Model(&models.PlatformVisit{}).
		Select("visit_date AS day, COUNT(*) AS count").
		Where("visit_date >= ?", weekStart).
		Group("visit_date").
		Scan(&days).Error
	if err != nil {
		return err
	}
	// Every day of the window appears, gap days as zero.
	for d := 0; d < dashboardDays; d++ {
		stats.DailyVisits[weekStart.AddDate(0, 0, d).Format("2006-01-02")] = 0
	}
	for _, r := range days {
		stats.DailyVisits[r.Day.Format("2006-01-02")] = r.Count
	}

	type pageRow struct {
		PageURL string
		Count   int64
	}
	var pages []pageRow
	err = s.db.Model(&models.PlatformVisit{}).
		Select("page_url, COUNT(*) AS count").
		Where("visit_date >= ?", weekStart).
		Group("page_url").
		Order("count DESC").
		Limit(10).
		Scan(&pages).Error
	if err != nil {
		return err
	}
	for _, p := range pages {
		stats.MostVisitedPages[p.PageURL] = p.Count
	}
	return nil
}
