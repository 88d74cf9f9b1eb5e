package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"support-ops-dashboard/backend/internal/ai"
	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/pkg/logger"

	"gorm.io/gorm"
)

var ErrTicketNotFound = errors.New("ticket not found")

// TicketService handles support tickets. New tickets are classified by the
// AI pipeline on a best-effort basis; a classifier failure never blocks
// ticket creation.
type TicketService struct {
	db         *gorm.DB
	classifier ai.Classifier
	logs       *LogService
	log        *logger.Logger
}

// NewTicketService creates a new ticket service. The classifier may be nil,
// in which case tickets are created unclassified.
func NewTicketService(db *gorm.DB, classifier ai.Classifier, logs *LogService, log *logger.Logger) *TicketService {
	return &TicketService{db: db, classifier: classifier, logs: logs, log: log}
}

// CreateTicket opens a ticket, classifies its description, and records the
// event in the integration log.
func (s *TicketService) CreateTicket(ctx context.Context, req *models.CreateTicketRequest) (*models.Ticket, error) {
	ticket := models.Ticket{
		TicketNumber: s.generateTicketNumber(),
		CustomerID:   req.CustomerID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.TicketOpen,
		Priority:     req.Priority,
		Category:     req.Category,
		AssignedTo:   req.AssignedTo,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if ticket.Priority == "" {
		ticket.Priority = ai.PriorityMedium
	}

	if s.classifier != nil {
		cls, err := s.classifier.ClassifyIntent(ctx, req.Description)
		if err != nil {
			s.log.Warn("ticket classification failed", "error", err.Error())
		} else {
			cls.Normalize()
			ticket.AIClassification = &cls
			if req.Priority == "" {
				ticket.Priority = cls.Priority
			}
		}
	}

	if err := s.db.WithContext(ctx).Create(&ticket).Error; err != nil {
		return nil, err
	}

	if s.logs != nil {
		s.logs.Record(ctx, models.SystemIntegration, "ticket_created", "success",
			fmt.Sprintf("ticket %s created", ticket.TicketNumber),
			map[string]any{"ticketId": ticket.ID, "priority": ticket.Priority})
	}

	return &ticket, nil
}

// GetTicket retrieves a ticket by ID.
func (s *TicketService) GetTicket(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	result := s.db.WithContext(ctx).First(&ticket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, result.Error
	}
	return &ticket, nil
}

// ListTickets returns tickets newest first, narrowed by the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error) {
	var tickets []models.Ticket
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR ticket_number ILIKE ?", like, like, like)
	}
	if err := query.Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// UpdateTicket applies a partial mutation and returns the updated row.
func (s *TicketService) UpdateTicket(ctx context.Context, id uint, req *models.UpdateTicketRequest) (*models.Ticket, error) {
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.AssignedTo != nil {
		fields["assigned_to"] = *req.AssignedTo
	}
	if req.ResolutionTime != nil {
		fields["resolution_time"] = *req.ResolutionTime
	}
	if req.SatisfactionRating != nil {
		fields["satisfaction_rating"] = *req.SatisfactionRating
	}
	if len(fields) == 0 {
		return ticket, nil
	}
	fields["updated_at"] = time.Now()

	if err := s.db.WithContext(ctx).Model(ticket).Updates(fields).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

// DeleteTicket removes a ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Ticket{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// generateTicketNumber produces a readable, time-ordered ticket identifier.
func (s *TicketService) generateTicketNumber() string {
	return fmt.Sprintf("TKT-%d", time.Now().UnixNano()/int64(time.Millisecond))
}
