package shipping

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
	"github.com/oakmart-labs/oakmart-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service resolves destinations to zones and computes shipping costs.
type Service interface {
	CheckServiceability(ctx context.Context, destination string) (*ServiceabilityResult, error)
	CalculateShipping(ctx context.Context, destination string, orderTotal, weight decimal.Decimal) (*Quote, error)

	Create(ctx context.Context, input CreateZoneInput) (*models.ShippingZone, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ShippingZone, error)
	List(ctx context.Context, params pagination.Params) ([]models.ShippingZone, string, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateZoneInput) (*models.ShippingZone, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddPincodes(ctx context.Context, id uuid.UUID, pincodes []string) (*models.ShippingZone, error)
	RemovePincodes(ctx context.Context, id uuid.UUID, pincodes []string) (*models.ShippingZone, error)
}

type service struct {
	repo ZoneRepository
	logg *logger.Logger
}

// NewService builds a shipping service backed by the provided stack.
func NewService(repo ZoneRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("zone repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// formatEstimate renders a delivery window as "3 days" or "3-5 days".
func formatEstimate(minDays, maxDays int) string {
	if minDays == maxDays {
		return fmt.Sprintf("%d days", minDays)
	}
	return fmt.Sprintf("%d-%d days", minDays, maxDays)
}

// CheckServiceability reports whether any active zone covers the destination.
// An uncovered destination is a normal answer here, not an error.
func (s *service) CheckServiceability(ctx context.Context, destination string) (*ServiceabilityResult, error) {
	if strings.TrimSpace(destination) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination is required")
	}

	zone, err := s.repo.FindZoneByDestination(ctx, destination)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceabilityResult{Serviceable: false}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve shipping zone")
	}

	return &ServiceabilityResult{
		Serviceable: true,
		Zone: &ZoneSummary{
			ID:        zone.ID,
			Name:      zone.Name,
			BaseCost:  zone.BaseCost,
			FreeAbove: zone.FreeAbove,
		},
		EstimatedDays: formatEstimate(zone.MinDays, zone.MaxDays),
	}, nil
}

// CalculateShipping computes the cost of shipping an order to the destination.
// Unlike a coupon failure, an unserviceable destination blocks checkout, so it
// surfaces as a hard error naming the destination.
func (s *service) CalculateShipping(ctx context.Context, destination string, orderTotal, weight decimal.Decimal) (*Quote, error) {
	if strings.TrimSpace(destination) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination is required")
	}
	if orderTotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be non-negative")
	}
	if weight.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be non-negative")
	}

	zone, err := s.repo.FindZoneByDestination(ctx, destination)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("delivery not available for %s", strings.TrimSpace(destination)))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve shipping zone")
	}

	estimate := formatEstimate(zone.MinDays, zone.MaxDays)

	if zone.FreeAbove != nil && orderTotal.GreaterThanOrEqual(*zone.FreeAbove) {
		return &Quote{
			Cost:          decimal.Zero,
			IsFree:        true,
			EstimatedDays: estimate,
			ZoneName:      zone.Name,
		}, nil
	}

	cost := zone.BaseCost.Add(weight.Mul(zone.PerKgCost)).Round(2)
	return &Quote{
		Cost:          cost,
		IsFree:        false,
		EstimatedDays: estimate,
		ZoneName:      zone.Name,
	}, nil
}

// Create validates and stores a new zone, rejecting pincode overlap with any
// other active zone so every destination resolves unambiguously.
func (s *service) Create(ctx context.Context, input CreateZoneInput) (*models.ShippingZone, error) {
	zone := &models.ShippingZone{
		Name:      strings.TrimSpace(input.Name),
		Pincodes:  types.NewStringSet(input.Pincodes),
		BaseCost:  input.BaseCost,
		PerKgCost: input.PerKgCost,
		MinDays:   input.MinDays,
		MaxDays:   input.MaxDays,
		FreeAbove: input.FreeAbove,
		IsActive:  true,
	}
	if input.IsActive != nil {
		zone.IsActive = *input.IsActive
	}

	if err := validateZoneFields(zone); err != nil {
		return nil, err
	}
	if err := s.ensureNoOverlap(ctx, zone); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, zone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipping zone")
	}

	ctx = s.logg.WithField(ctx, "zone", created.Name)
	s.logg.Info(ctx, "shipping zone created")
	return created, nil
}

// Get loads a zone by id.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ShippingZone, error) {
	zone, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipping zone not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping zone")
	}
	return zone, nil
}

// List returns a page of zones.
func (s *service) List(ctx context.Context, params pagination.Params) ([]models.ShippingZone, string, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipping zones")
	}
	return rows, next, nil
}

// Update applies a partial update. Pincode membership changes go through
// AddPincodes/RemovePincodes so set semantics stay in one place.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateZoneInput) (*models.ShippingZone, error) {
	zone, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		zone.Name = strings.TrimSpace(*input.Name)
	}
	if input.BaseCost != nil {
		zone.BaseCost = *input.BaseCost
	}
	if input.PerKgCost != nil {
		zone.PerKgCost = *input.PerKgCost
	}
	if input.MinDays != nil {
		zone.MinDays = *input.MinDays
	}
	if input.MaxDays != nil {
		zone.MaxDays = *input.MaxDays
	}
	if input.FreeAbove != nil {
		zone.FreeAbove = input.FreeAbove
	}
	if input.IsActive != nil {
		zone.IsActive = *input.IsActive
	}

	if err := validateZoneFields(zone); err != nil {
		return nil, err
	}
	// reactivation can reintroduce overlap
	if err := s.ensureNoOverlap(ctx, zone); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, zone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipping zone")
	}
	return updated, nil
}

// Delete removes a zone.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete shipping zone")
	}
	return nil
}

// AddPincodes unions the given destinations into the zone's set.
func (s *service) AddPincodes(ctx context.Context, id uuid.UUID, pincodes []string) (*models.ShippingZone, error) {
	if len(pincodes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pincodes are required")
	}

	zone, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	zone.Pincodes = zone.Pincodes.Union(pincodes)
	if err := s.ensureNoOverlap(ctx, zone); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, zone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipping zone")
	}
	return updated, nil
}

// RemovePincodes subtracts the given destinations from the zone's set.
func (s *service) RemovePincodes(ctx context.Context, id uuid.UUID, pincodes []string) (*models.ShippingZone, error) {
	if len(pincodes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pincodes are required")
	}

	zone, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	zone.Pincodes = zone.Pincodes.Difference(pincodes)
	if len(zone.Pincodes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone must keep at least one pincode")
	}

	updated, err := s.repo.Update(ctx, zone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipping zone")
	}
	return updated, nil
}

func (s *service) ensureNoOverlap(ctx context.Context, zone *models.ShippingZone) error {
	if !zone.IsActive {
		return nil
	}
	other, err := s.repo.FindActiveOverlapping(ctx, zone.Pincodes, zone.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check zone overlap")
	}
	return pkgerrors.New(pkgerrors.CodeConflict,
		fmt.Sprintf("pincodes already covered by active zone %q", other.Name))
}

func validateZoneFields(zone *models.ShippingZone) error {
	if zone.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "zone name is required")
	}
	if len(zone.Pincodes) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "zone must cover at least one pincode")
	}
	if zone.BaseCost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "base cost must be non-negative")
	}
	if zone.PerKgCost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "per kg cost must be non-negative")
	}
	if zone.MinDays < 0 || zone.MaxDays < zone.MinDays {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery estimate range is invalid")
	}
	if zone.FreeAbove != nil && zone.FreeAbove.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "free shipping threshold must be non-negative")
	}
	return nil
}
