package models

import (
	"time"

	"support-ops-dashboard/backend/internal/ai"
)

// Ticket statuses.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// Ticket is a support ticket raised by a customer.
type Ticket struct {
	ID                 uint               `json:"id" gorm:"primaryKey"`
	TicketNumber       string             `json:"ticketNumber" gorm:"uniqueIndex"`
	CustomerID         *uint              `json:"customerId" gorm:"index"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Status             string             `json:"status" gorm:"default:open"`
	Priority           string             `json:"priority" gorm:"default:medium"`
	Category           string             `json:"category"`
	AssignedTo         string             `json:"assignedTo"`
	AIClassification   *ai.Classification `json:"aiClassification,omitempty" gorm:"serializer:json"`
	ResolutionTime     int                `json:"resolutionTime"`     // minutes
	SatisfactionRating int                `json:"satisfactionRating"` // 1-5
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// CreateTicketRequest is the payload for opening a ticket.
type CreateTicketRequest struct {
	CustomerID  *uint  `json:"customerId"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Priority    string `json:"priority"`
	Category    string `json:"category" binding:"required"`
	AssignedTo  string `json:"assignedTo"`
}

// UpdateTicketRequest carries a partial ticket mutation.
type UpdateTicketRequest struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	Status             *string `json:"status"`
	Priority           *string `json:"priority"`
	Category           *string `json:"category"`
	AssignedTo         *string `json:"assignedTo"`
	ResolutionTime     *int    `json:"resolutionTime"`
	SatisfactionRating *int    `json:"satisfactionRating"`
}

// TicketFilter narrows ticket listings.
type TicketFilter struct {
	Status   string
	Priority string
	Search   string
}
