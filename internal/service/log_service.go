package service

import (
	"context"
	"time"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/pkg/logger"

	"gorm.io/gorm"
)

// LogService records and serves integration log entries for the monitored
// CRM/ERP systems.
type LogService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewLogService creates a new log service
func NewLogService(db *gorm.DB, log *logger.Logger) *LogService {
	return &LogService{db: db, log: log}
}

// CreateLog appends an entry from an API request.
func (s *LogService) CreateLog(ctx context.Context, req *models.CreateIntegrationLogRequest) (*models.IntegrationLog, error) {
	entry := models.IntegrationLog{
		System:    req.System,
		Action:    req.Action,
		Status:    req.Status,
		Message:   req.Message,
		Metadata:  req.Metadata,
		Timestamp: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Record appends an entry from inside the service layer. Failures are logged
// and swallowed; an audit write never fails the operation it describes.
func (s *LogService) Record(ctx context.Context, system, action, status, message string, metadata map[string]any) {
	entry := models.IntegrationLog{
		System:    system,
		Action:    action,
		Status:    status,
		Message:   message,
		Metadata:  metadata,
		Timestamp: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Warn("failed to record integration log", "system", system, "action", action, "error", err.Error())
	}
}

// ListLogs returns entries newest first, optionally filtered by system and
// status, capped at limit (default 100).
func (s *LogService) ListLogs(ctx context.Context, system, status string, limit int) ([]models.IntegrationLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []models.IntegrationLog
	query := s.db.WithContext(ctx).Order("timestamp DESC").Limit(limit)
	if system != "" {
		query = query.Where("system = ?", system)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
