package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/db/models"
	pkgerrors "github.com/oakmart-labs/oakmart-backend/pkg/errors"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
	"github.com/oakmart-labs/oakmart-backend/pkg/pagination"
	"github.com/oakmart-labs/oakmart-backend/pkg/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func domesticZone() *models.ShippingZone {
	return &models.ShippingZone{
		ID:        uuid.New(),
		Name:      "Domestic",
		Pincodes:  types.NewStringSet([]string{"10001", "10002"}),
		BaseCost:  dec("5.99"),
		PerKgCost: dec("1.50"),
		MinDays:   3,
		MaxDays:   5,
		FreeAbove: decPtr("50"),
		IsActive:  true,
	}
}

func newTestService(repo ZoneRepository) Service {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	svc, err := NewService(repo, logg)
	if err != nil {
		panic(err)
	}
	return svc
}

func TestCalculateShippingFreeThreshold(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubZoneRepo{zone: domesticZone()})

	quote, err := svc.CalculateShipping(context.Background(), "10001", dec("60"), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.IsFree || !quote.Cost.IsZero() {
		t.Fatalf("expected free shipping at 60 >= 50, got %+v", quote)
	}

	quote, err = svc.CalculateShipping(context.Background(), "10001", dec("30"), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.IsFree || !quote.Cost.Equal(dec("5.99")) {
		t.Fatalf("expected base cost 5.99 below threshold, got %+v", quote)
	}
	if quote.ZoneName != "Domestic" || quote.EstimatedDays != "3-5 days" {
		t.Fatalf("unexpected quote metadata: %+v", quote)
	}
}

func TestCalculateShippingWeightFormula(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubZoneRepo{zone: domesticZone()})

	quote, err := svc.CalculateShipping(context.Background(), "10002", dec("30"), dec("2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Cost.Equal(dec("8.99")) {
		t.Fatalf("expected 5.99 + 2*1.50 = 8.99, got %s", quote.Cost)
	}
}

func TestCalculateShippingUnserviceable(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubZoneRepo{})

	_, err := svc.CalculateShipping(context.Background(), "99999", dec("30"), decimal.Zero)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
	if typed.Message() != "delivery not available for 99999" {
		t.Fatalf("expected message naming destination, got %q", typed.Message())
	}
}

func TestCalculateShippingRejectsNegatives(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubZoneRepo{zone: domesticZone()})

	if _, err := svc.CalculateShipping(context.Background(), "10001", dec("-1"), decimal.Zero); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for negative order total")
	}
	if _, err := svc.CalculateShipping(context.Background(), "10001", dec("30"), dec("-1")); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for negative weight")
	}
}

func TestCheckServiceability(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubZoneRepo{zone: domesticZone()})

	res, err := svc.CheckServiceability(context.Background(), "10001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Serviceable || res.Zone == nil || res.Zone.Name != "Domestic" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.EstimatedDays != "3-5 days" {
		t.Fatalf("unexpected estimate: %q", res.EstimatedDays)
	}

	res, err = svc.CheckServiceability(context.Background(), "99999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Serviceable || res.Zone != nil {
		t.Fatalf("expected unserviceable result, got %+v", res)
	}
}

func TestFormatEstimateSingleDay(t *testing.T) {
	t.Parallel()

	if got := formatEstimate(2, 2); got != "2 days" {
		t.Fatalf("expected %q, got %q", "2 days", got)
	}
	if got := formatEstimate(3, 5); got != "3-5 days" {
		t.Fatalf("expected %q, got %q", "3-5 days", got)
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubZoneRepo{zone: domesticZone(), overlap: true})

	_, err := svc.Create(context.Background(), CreateZoneInput{
		Name:     "Metro",
		Pincodes: []string{"10001"},
		BaseCost: dec("4.99"),
		MinDays:  1,
		MaxDays:  2,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for overlapping pincodes, got %v", err)
	}
}

func TestRemovePincodesKeepsZoneNonEmpty(t *testing.T) {
	t.Parallel()

	zone := domesticZone()
	svc := newTestService(&stubZoneRepo{zone: zone})

	_, err := svc.RemovePincodes(context.Background(), zone.ID, []string{"10001", "10002"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error when emptying the set, got %v", err)
	}
}

type stubZoneRepo struct {
	zone    *models.ShippingZone
	overlap bool
}

func (s *stubZoneRepo) WithTx(tx *gorm.DB) ZoneRepository { return s }

func (s *stubZoneRepo) FindZoneByDestination(ctx context.Context, destination string) (*models.ShippingZone, error) {
	if s.zone != nil && s.zone.Pincodes.Contains(destination) {
		return s.zone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubZoneRepo) FindActiveOverlapping(ctx context.Context, pincodes types.StringSet, excludeID uuid.UUID) (*models.ShippingZone, error) {
	if s.overlap && s.zone != nil {
		return s.zone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubZoneRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ShippingZone, error) {
	if s.zone == nil || s.zone.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.zone, nil
}

func (s *stubZoneRepo) Create(ctx context.Context, zone *models.ShippingZone) (*models.ShippingZone, error) {
	zone.ID = uuid.New()
	return zone, nil
}

func (s *stubZoneRepo) Update(ctx context.Context, zone *models.ShippingZone) (*models.ShippingZone, error) {
	return zone, nil
}

func (s *stubZoneRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubZoneRepo) List(ctx context.Context, params pagination.Params) ([]models.ShippingZone, string, error) {
	return nil, "", nil
}
