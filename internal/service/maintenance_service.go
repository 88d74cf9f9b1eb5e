package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/pkg/logger"

	"gorm.io/gorm"
)

var (
	ErrMaintenanceNotFound = errors.New("maintenance window not found")
	ErrInvalidWindow       = errors.New("scheduled end must be after scheduled start")
)

// MaintenanceService manages planned downtime windows. The scheduler drives
// their status transitions as the clock crosses window boundaries.
type MaintenanceService struct {
	db   *gorm.DB
	logs *LogService
	log  *logger.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(db *gorm.DB, logs *LogService, log *logger.Logger) *MaintenanceService {
	return &MaintenanceService{db: db, logs: logs, log: log}
}

// CreateWindow schedules a maintenance window.
func (s *MaintenanceService) CreateWindow(ctx context.Context, req *models.CreateMaintenanceRequest) (*models.MaintenanceWindow, error) {
	if !req.ScheduledEnd.After(req.ScheduledStart) {
		return nil, ErrInvalidWindow
	}
	window := models.MaintenanceWindow{
		Title:             req.Title,
		Description:       req.Description,
		System:            req.System,
		ScheduledStart:    req.ScheduledStart,
		ScheduledEnd:      req.ScheduledEnd,
		Status:            models.MaintenanceScheduled,
		EstimatedDowntime: req.EstimatedDowntime,
		ApprovedBy:        req.ApprovedBy,
		CreatedAt:         time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&window).Error; err != nil {
		return nil, err
	}
	if s.logs != nil {
		s.logs.Record(ctx, window.System, "maintenance_scheduled", "info",
			fmt.Sprintf("maintenance %q scheduled", window.Title),
			map[string]any{"windowId": window.ID})
	}
	return &window, nil
}

// GetWindow retrieves a window by ID.
func (s *MaintenanceService) GetWindow(ctx context.Context, id uint) (*models.MaintenanceWindow, error) {
	var window models.MaintenanceWindow
	result := s.db.WithContext(ctx).First(&window, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		return nil, result.Error
	}
	return &window, nil
}

// ListWindows returns windows soonest first, optionally filtered by status.
func (s *MaintenanceService) ListWindows(ctx context.Context, status string) ([]models.MaintenanceWindow, error) {
	var windows []models.MaintenanceWindow
	query := s.db.WithContext(ctx).Order("scheduled_start ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

// CancelWindow cancels a window that has not completed.
func (s *MaintenanceService) CancelWindow(ctx context.Context, id uint) (*models.MaintenanceWindow, error) {
	window, err := s.GetWindow(ctx, id)
	if err != nil {
		return nil, err
	}
	if window.Status == models.MaintenanceCompleted {
		return nil, errors.New("cannot cancel a completed window")
	}
	if err := s.db.WithContext(ctx).Model(window).Update("status", models.MaintenanceCancelled).Error; err != nil {
		return nil, err
	}
	return window, nil
}

// AdvanceWindows moves scheduled windows whose start has passed into
// in_progress, and in-progress windows whose end has passed into completed.
// Called by the scheduler; returns how many rows changed.
func (s *MaintenanceService) AdvanceWindows(ctx context.Context, now time.Time) (int64, error) {
	var changed int64

	started := s.db.WithContext(ctx).
		Model(&models.MaintenanceWindow{}).
		Where("status = ? AND scheduled_start <= ?", models.MaintenanceScheduled, now).
		Update("status", models.MaintenanceInProgress)
	if started.Error != nil {
		return changed, started.Error
	}
	changed += started.RowsAffected

	completed := s.db.WithContext(ctx).
		Model(&models.MaintenanceWindow{}).
		Where("status = ? AND scheduled_end <= ?", models.MaintenanceInProgress, now).
		Update("status", models.MaintenanceCompleted)
	if completed.Error != nil {
		return changed, completed.Error
	}
	changed += completed.RowsAffected

	if changed > 0 {
		s.log.Info("maintenance windows advanced", "changed", changed)
	}
	return changed, nil
}
