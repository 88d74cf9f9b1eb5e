package service

import (
	"context"
	"encoding/json"
	"time"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/pkg/cache"
	"support-ops-dashboard/backend/pkg/logger"

	"gorm.io/gorm"
)

const dashboardCacheKey = "analytics:dashboard"

// DashboardSummary is the aggregate view shown on the dashboard landing page.
type DashboardSummary struct {
	TicketsByStatus   map[string]int64 `json:"ticketsByStatus"`
	ActiveSessions    int64            `json:"activeSessions"`
	EscalatedSessions int64            `json:"escalatedSessions"`
	AvgSatisfaction   float64          `json:"avgSatisfaction"`
	UpcomingWindows   int64            `json:"upcomingWindows"`
	RecentErrors      int64            `json:"recentErrors"`
	GeneratedAt       time.Time        `json:"generatedAt"`
}

// AnalyticsService computes dashboard aggregates. Results are cached because
// the dashboard polls them on a short interval.
type AnalyticsService struct {
	db       *gorm.DB
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewAnalyticsService creates a new analytics service. The cache may be nil
// to disable caching.
func NewAnalyticsService(db *gorm.DB, c cache.Cache, ttl time.Duration, log *logger.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, cache: c, cacheTTL: ttl, log: log}
}

// Dashboard returns the dashboard summary, serving the cached copy when
// fresh.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, dashboardCacheKey); ok {
			var summary DashboardSummary
			if err := json.Unmarshal(raw, &summary); err == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.computeDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, raw, s.cacheTTL); err != nil {
				s.log.Warn("failed to cache dashboard summary", "error", err.Error())
			}
		}
	}
	return summary, nil
}

func (s *AnalyticsService) computeDashboard(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{
		TicketsByStatus: make(map[string]int64),
		GeneratedAt:     time.Now(),
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := s.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		summary.TicketsByStatus[c.Status] = c.Count
	}

	err = s.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("status = ?", models.SessionActive).
		Count(&summary.ActiveSessions).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("status = ? AND is_ai_active = ?", models.SessionActive, false).
		Count(&summary.EscalatedSessions).Error
	if err != nil {
		return nil, err
	}

	var avg *float64
	err = s.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Select("AVG(satisfaction_rating)").
		Where("satisfaction_rating > 0").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if avg != nil {
		summary.AvgSatisfaction = *avg
	}

	err = s.db.WithContext(ctx).
		Model(&models.MaintenanceWindow{}).
		Where("status = ?", models.MaintenanceScheduled).
		Count(&summary.UpcomingWindows).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&models.IntegrationLog{}).
		Where("status = ? AND timestamp >= ?", "error", time.Now().Add(-24*time.Hour)).
		Count(&summary.RecentErrors).Error
	if err != nil {
		return nil, err
	}

	return summary, nil
}
