package service

import (
	"context"
	"errors"
	"time"

	"support-ops-dashboard/backend/internal/models"

	"gorm.io/gorm"
)

var ErrCustomerNotFound = errors.New("customer not found")

// CustomerService handles customer account records.
type CustomerService struct {
	db *gorm.DB
}

// NewCustomerService creates a new customer service
func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// CreateCustomer registers a customer.
func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	customer := models.Customer{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Plan:      req.Plan,
		CreatedAt: time.Now(),
	}
	if customer.Plan == "" {
		customer.Plan = "basic"
	}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomer retrieves a customer by ID.
func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	result := s.db.WithContext(ctx).First(&customer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, result.Error
	}
	return &customer, nil
}

// ListCustomers returns customers newest first. A non-empty search term
// matches name, email or company.
func (s *CustomerService) ListCustomers(ctx context.Context, search string) ([]models.Customer, error) {
	var customers []models.Customer
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR company ILIKE ?", like, like, like)
	}
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// UpdateCustomer applies a partial mutation and returns the updated row.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uint, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Company != nil {
		fields["company"] = *req.Company
	}
	if req.Plan != nil {
		fields["plan"] = *req.Plan
	}
	if len(fields) == 0 {
		return customer, nil
	}

	if err := s.db.WithContext(ctx).Model(customer).Updates(fields).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer record.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
