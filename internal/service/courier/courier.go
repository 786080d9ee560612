package courier

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Emmanuel3dev/market-server/internal/apperr"
	"github.com/Emmanuel3dev/market-server/internal/domain"
)

// Service coordinates courier directory logic and orchestrates repository calls.
type Service struct {
	repo             courierRepository
	operationTimeout time.Duration
}

// NewService creates and configures a courier Service.
func NewService(r courierRepository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: r, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// validateCreate validates a courier for creation.
func validateCreate(c *domain.Courier) error {
	if c == nil {
		return apperr.ErrInvalid
	}
	if strings.TrimSpace(c.Name) == "" {
		return apperr.ErrInvalid
	}
	if !domain.ValidatePhone(c.Phone) {
		return apperr.ErrInvalid
	}
	if c.Status == "" {
		c.Status = domain.StatusOffline
	}
	if !c.Status.Valid() {
		return apperr.ErrInvalid
	}
	if c.Position != nil && !c.Position.Valid() {
		return apperr.ErrInvalid
	}
	if !validSchedule(c.Schedule) {
		return apperr.ErrInvalid
	}
	return nil
}

func validateUpdate(u *domain.PartialCourierUpdate) error {
	if strings.TrimSpace(u.ID) == "" {
		return apperr.ErrInvalid
	}
	if u.Name == nil && u.Phone == nil && u.Status == nil &&
		u.Position == nil && u.Schedule == nil && u.Token == nil {
		return apperr.ErrInvalid
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return apperr.ErrInvalid
	}
	if u.Phone != nil && !domain.ValidatePhone(*u.Phone) {
		return apperr.ErrInvalid
	}
	if u.Status != nil && !u.Status.Valid() {
		return apperr.ErrInvalid
	}
	if u.Position != nil && !u.Position.Valid() {
		return apperr.ErrInvalid
	}
	if u.Schedule != nil && !validSchedule(u.Schedule) {
		return apperr.ErrInvalid
	}
	return nil
}

// validSchedule checks every active entry parses as a clock range.
func validSchedule(s domain.WeeklySchedule) bool {
	for _, entry := range s {
		if !entry.Active {
			continue
		}
		if _, err := time.Parse("15:04", entry.Start); err != nil {
			return false
		}
		if _, err := time.Parse("15:04", entry.End); err != nil {
			return false
		}
	}
	return true
}

// Get retrieves a courier by its ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.ErrNotFound
	}
	return c, nil
}

// List returns couriers with optional pagination
func (s *Service) List(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx, limit, offset)
}

// Create persists a new courier and returns its ID, generating one when the
// caller did not supply it.
func (s *Service) Create(ctx context.Context, c *domain.Courier) (string, error) {
	if err := validateCreate(c); err != nil {
		return "", err
	}
	if strings.TrimSpace(c.ID) == "" {
		c.ID = uuid.NewString()
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.Create(ctx, c); err != nil {
		return "", err
	}
	return c.ID, nil
}

// UpdatePartial applies a partial update to a courier. It returns true if a row was updated.
func (s *Service) UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) (bool, error) {
	if err := validateUpdate(&u); err != nil {
		return false, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.repo.UpdatePartial(ctx, u)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, apperr.ErrNotFound
	}
	return true, nil
}

// Release returns a busy courier to the available pool after its delivery is
// handed over. A courier that is not busy is reported as not found.
func (s *Service) Release(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.repo.ReleaseCourier(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}
