package models

import "time"

// APIMetric is one recorded call against the mock CRM/ERP integration APIs.
type APIMetric struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	System       string    `json:"system" gorm:"index"`
	ResponseTime int       `json:"responseTime"` // milliseconds
	StatusCode   int       `json:"statusCode"`
	Timestamp    time.Time `json:"timestamp"`
}
