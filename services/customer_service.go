package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yeremiapane/pizzagpt/models"
	"github.com/yeremiapane/pizzagpt/utils"
)

const guestCustomerName = "Guest"

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

type FindOrCreateCustomerParams struct {
	Name  string
	Email string
	Phone string
}

// FindOrCreate looks a customer up by exactly one key, the first present of
// email, phone, name. Keys are never combined. When nothing matches a new
// customer is created. The bool reports whether it was created.
func (s *CustomerService) FindOrCreate(ctx context.Context, p FindOrCreateCustomerParams) (*models.Customer, bool, error) {
	name := strings.TrimSpace(p.Name)
	email := strings.TrimSpace(p.Email)
	phone := strings.TrimSpace(p.Phone)

	if name == "" && email == "" && phone == "" {
		return nil, false, invalidArgument("provide at least one of name, email or phone")
	}

	var (
		customer models.Customer
		created  bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Customer{})
		switch {
		case email != "":
			query = query.Where("email = ?", email)
		case phone != "":
			query = query.Where("phone = ?", phone)
		default:
			query = query.Where("name = ?", name)
		}

		err := query.Order("created_at ASC").Take(&customer).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up customer: %w", err)
		}

		customer = models.Customer{
			Name:  firstNonEmpty(name, email, phone, guestCustomerName),
			Email: optionalString(&email),
			Phone: optionalString(&phone),
		}
		if err := tx.Create(&customer).Error; err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		utils.InfoLogger.Printf("New customer created (ID=%s, name=%q)", customer.ID, customer.Name)
	}
	return &customer, created, nil
}

func (s *CustomerService) Get(ctx context.Context, rawID string) (*models.Customer, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	err = s.db.WithContext(ctx).First(&customer, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("customer not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
