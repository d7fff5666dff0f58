package tax

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/db/models"
	pkgerrors "github.com/oakmart-labs/oakmart-backend/pkg/errors"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
	"github.com/oakmart-labs/oakmart-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

// NoTaxName labels the zero result returned when no rate is configured.
const NoTaxName = "No Tax"

// Service resolves regions to tax rates and computes tax amounts.
type Service interface {
	CalculateTax(ctx context.Context, subtotal decimal.Decimal, region string) (*Result, error)

	Create(ctx context.Context, input CreateRateInput) (*models.TaxRate, error)
	Get(ctx context.Context, id uuid.UUID) (*models.TaxRate, error)
	List(ctx context.Context, params pagination.Params) ([]models.TaxRate, string, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateRateInput) (*models.TaxRate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo RateRepository
	logg *logger.Logger
}

// NewService builds a tax service backed by the provided stack.
func NewService(repo RateRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rate repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// CalculateTax resolves a rate for the region, falling back to the default
// rate and then to a zero result. Absent configuration is a valid zero-tax
// state, never an error.
func (s *service) CalculateTax(ctx context.Context, subtotal decimal.Decimal, region string) (*Result, error) {
	if subtotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must be non-negative")
	}

	rate, err := s.resolveRate(ctx, strings.TrimSpace(region))
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return &Result{TaxAmount: decimal.Zero, TaxRate: decimal.Zero, TaxName: NoTaxName}, nil
	}

	amount := subtotal.Mul(rate.Rate).Div(oneHundred).Round(2)
	return &Result{
		TaxAmount: amount,
		TaxRate:   rate.Rate,
		TaxName:   rate.Name,
	}, nil
}

func (s *service) resolveRate(ctx context.Context, region string) (*models.TaxRate, error) {
	if region != "" {
		rate, err := s.repo.FindActiveByRegion(ctx, region)
		if err == nil {
			return rate, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve tax rate")
		}
	}

	rate, err := s.repo.FindActiveDefault(ctx, uuid.Nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve default tax rate")
	}
	return rate, nil
}

// Create validates and stores a new rate. Only one active default rate may
// exist at a time.
func (s *service) Create(ctx context.Context, input CreateRateInput) (*models.TaxRate, error) {
	rate := &models.TaxRate{
		Name:     strings.TrimSpace(input.Name),
		Rate:     input.Rate,
		Region:   normalizeRegion(input.Region),
		IsActive: true,
	}
	if input.IsActive != nil {
		rate.IsActive = *input.IsActive
	}

	if err := validateRateFields(rate); err != nil {
		return nil, err
	}
	if err := s.ensureSingleDefault(ctx, rate); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, rate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tax rate")
	}

	ctx = s.logg.WithField(ctx, "tax_rate", created.Name)
	s.logg.Info(ctx, "tax rate created")
	return created, nil
}

// Get loads a rate by id.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.TaxRate, error) {
	rate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tax rate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tax rate")
	}
	return rate, nil
}

// List returns a page of rates.
func (s *service) List(ctx context.Context, params pagination.Params) ([]models.TaxRate, string, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tax rates")
	}
	return rows, next, nil
}

// Update applies a partial update to a rate.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateRateInput) (*models.TaxRate, error) {
	rate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		rate.Name = strings.TrimSpace(*input.Name)
	}
	if input.Rate != nil {
		rate.Rate = *input.Rate
	}
	if input.Region != nil {
		rate.Region = normalizeRegion(input.Region)
	}
	if input.IsActive != nil {
		rate.IsActive = *input.IsActive
	}

	if err := validateRateFields(rate); err != nil {
		return nil, err
	}
	if err := s.ensureSingleDefault(ctx, rate); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, rate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tax rate")
	}
	return updated, nil
}

// Delete removes a rate.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete tax rate")
	}
	return nil
}

func (s *service) ensureSingleDefault(ctx context.Context, rate *models.TaxRate) error {
	if rate.Region != nil || !rate.IsActive {
		return nil
	}
	existing, err := s.repo.FindActiveDefault(ctx, rate.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check default tax rate")
	}
	return pkgerrors.New(pkgerrors.CodeConflict,
		fmt.Sprintf("active default tax rate %q already exists", existing.Name))
}

// normalizeRegion trims the region and treats an empty string as the default
// marker.
func normalizeRegion(region *string) *string {
	if region == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*region)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validateRateFields(rate *models.TaxRate) error {
	if rate.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "rate name is required")
	}
	if rate.Rate.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "rate must be non-negative")
	}
	return nil
}
