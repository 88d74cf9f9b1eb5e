package service

import (
	"context"
	"time"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/pkg/logger"

	"gorm.io/gorm"
)

// MetricService records per-call latency samples for the mock CRM/ERP
// integration endpoints and aggregates them for the dashboard.
type MetricService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewMetricService creates a new metric service
func NewMetricService(db *gorm.DB, log *logger.Logger) *MetricService {
	return &MetricService{db: db, log: log}
}

// Record stores one API call sample. Failures are logged and swallowed.
func (s *MetricService) Record(ctx context.Context, metric models.APIMetric) {
	if metric.Timestamp.IsZero() {
		metric.Timestamp = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(&metric).Error; err != nil {
		s.log.Warn("failed to record api metric", "endpoint", metric.Endpoint, "error", err.Error())
	}
}

// ListMetrics returns recent samples newest first, optionally filtered by
// system, capped at limit (default 100).
func (s *MetricService) ListMetrics(ctx context.Context, system string, limit int) ([]models.APIMetric, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var metrics []models.APIMetric
	query := s.db.WithContext(ctx).Order("timestamp DESC").Limit(limit)
	if system != "" {
		query = query.Where("system = ?", system)
	}
	if err := query.Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

// SystemStats is an aggregate view of one system's recent API calls.
type SystemStats struct {
	System          string  `json:"system"`
	Calls           int64   `json:"calls"`
	AvgResponseTime float64 `json:"avgResponseTime"`
	ErrorRate       float64 `json:"errorRate"`
}

// Stats aggregates samples recorded since the cutoff, grouped by system.
func (s *MetricService) Stats(ctx context.Context, since time.Time) ([]SystemStats, error) {
	var stats []SystemStats
	err := s.db.WithContext(ctx).
		Model(&models.APIMetric{}).
		Select("system, COUNT(*) AS calls, AVG(response_time) AS avg_response_time, "+
			"AVG(CASE WHEN status_code >= 400 THEN 1.0 ELSE 0.0 END) AS error_rate").
		Where("timestamp >= ?", since).
		Group("system").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
