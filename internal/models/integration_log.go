package models

import "time"

// Integration log systems.
const (
	SystemCRM         = "crm"
	SystemERP         = "erp"
	SystemIntegration = "integration"
)

// IntegrationLog records an event observed on one of the integrated systems.
type IntegrationLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	System    string         `json:"system" gorm:"index"`
	Action    string         `json:"action"`
	Status    string         `json:"status"` // success, error, warning, info
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty" gorm:"serializer:json"`
	Timestamp time.Time      `json:"timestamp"`
}

// CreateIntegrationLogRequest is the payload for appending a log entry.
type CreateIntegrationLogRequest struct {
	System   string         `json:"system" binding:"required"`
	Action   string         `json:"action" binding:"required"`
	Status   string         `json:"status" binding:"required"`
	Message  string         `json:"message" binding:"required"`
	Metadata map[string]any `json:"metadata"`
}
