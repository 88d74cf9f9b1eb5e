package models

import "time"

// Maintenance window statuses.
const (
	MaintenanceScheduled  = "scheduled"
	MaintenanceInProgress = "in_progress"
	MaintenanceCompleted  = "completed"
	MaintenanceCancelled  = "cancelled"
)

// MaintenanceWindow is a planned downtime window for one of the systems.
type MaintenanceWindow struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	System            string    `json:"system"`
	ScheduledStart    time.Time `json:"scheduledStart"`
	ScheduledEnd      time.Time `json:"scheduledEnd"`
	Status            string    `json:"status" gorm:"default:scheduled"`
	EstimatedDowntime int       `json:"estimatedDowntime"` // minutes
	ApprovedBy        string    `json:"approvedBy"`
	CreatedAt         time.Time `json:"createdAt"`
}

// CreateMaintenanceRequest is the payload for scheduling a window.
type CreateMaintenanceRequest struct {
	Title             string    `json:"title" binding:"required"`
	Description       string    `json:"description"`
	System            string    `json:"system" binding:"required"`
	ScheduledStart    time.Time `json:"scheduledStart" binding:"required"`
	ScheduledEnd      time.Time `json:"scheduledEnd" binding:"required"`
	EstimatedDowntime int       `json:"estimatedDowntime"`
	ApprovedBy        string    `json:"approvedBy"`
}
