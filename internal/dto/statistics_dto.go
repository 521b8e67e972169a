package dto

type StatisticsResponse struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalClients  int64 `json:"totalClients"`
	TotalAgencies int64 `json:"totalAgencies"`
	TotalAdmins   int64 `json:"totalAdmins"`

	VerifiedAgencies   int64 `json:"verifiedAgencies"`
	UnverifiedAgencies int64 `json:"unverifiedAgencies"`

	ActiveUsers  int64 `json:"activeUsers"`
	PendingUsers int64 `json:"pendingUsers"`

	TotalVisitsToday     int64   `json:"totalVisitsToday"`
	TotalVisitsThisWeek  int64   `json:"totalVisitsThisWeek"`
	TotalVisitsThisMonth int64   `json:"totalVisitsThisMonth"`
	UniqueVisitorsToday  int64   `json:"uniqueVisitorsToday"`
	AverageVisitDuration float64 `json:"averageVisitDuration"`

	DailyVisits          map[string]int64 `json:"dailyVisits"`
	UserTypeDistribution map[string]int64 `json:"userTypeDistribution"`
	MostVisitedPages     map[string]int64 `json:"mostVisitedPages"`

	TotalAnnoncesPublished int64 `json:"totalAnnoncesPublished"`
}

// DashboardResponse is the reduced summary served to agencies alongside
// admins; the full StatisticsResponse stays admin only.
type DashboardResponse struct {
	TotalUsers             int64            `json:"totalUsers"`
	TotalClients           int64            `json:"totalClients"`
	TotalAgencies          int64            `json:"totalAgencies"`
	VerifiedAgencies       int64            `json:"verifiedAgencies"`
	TotalVisitsToday       int64            `json:"totalVisitsToday"`
	TotalVisitsThisWeek    int64            `json:"totalVisitsThisWeek"`
	UniqueVisitorsToday    int64            `json:"uniqueVisitorsToday"`
	TotalAnnoncesPublished int64            `json:"totalAnnoncesPublished"`
	DailyVisits            map[string]int64 `json:"dailyVisits"`
	UserTypeDistribution   map[string]int64 `json:"userTypeDistribution"`
}

// WeeklyStatisticsResponse is the trailing-week slice of the dashboard.
type WeeklyStatisticsResponse struct {
	TotalVisitsThisWeek int64            `json:"totalVisitsThisWeek"`
	UniqueVisitorsToday int64            `json:"uniqueVisitorsToday"`
	DailyVisits         map[string]int64 `json:"dailyVisits"`
}
