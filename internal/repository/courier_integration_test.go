//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/Emmanuel3dev/market-server/internal/apperr"
	"github.com/Emmanuel3dev/market-server/internal/domain"
	"github.com/Emmanuel3dev/market-server/internal/repository"
)

type CourierRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.CourierRepo
}

func (s *CourierRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewCourierRepo(tcPool)
}

func (s *CourierRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE couriers RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func (s *CourierRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()

	in := &domain.Courier{
		ID:     "c-1",
		Name:   "Moussa",
		Phone:  "+2250700000001",
		Status: domain.StatusAvailable,
		Position: &domain.GeoPoint{
			Lat: 5.3252,
			Lon: -4.0229,
		},
		Schedule: domain.WeeklySchedule{
			1: {Active: true, Start: "08:00", End: "18:00"},
		},
	}

	err := s.repo.Create(ctx, in)
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, in.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal(in.ID, got.ID)
	s.Equal(in.Name, got.Name)
	s.Equal(in.Phone, got.Phone)
	s.Equal(in.Status, got.Status)
	s.Require().NotNil(got.Position)
	s.InDelta(in.Position.Lat, got.Position.Lat, 1e-9)
	s.InDelta(in.Position.Lon, got.Position.Lon, 1e-9)
	s.Equal(in.Schedule, got.Schedule)
}

func (s *CourierRepositorySuite) TestCreate_DuplicatePhone() {
	ctx := context.Background()

	phone := "+2250700000001"
	err := s.repo.Create(ctx, &domain.Courier{
		ID:     "c-1",
		Name:   "Moussa",
		Phone:  phone,
		Status: domain.StatusAvailable,
	})
	s.Require().NoError(err)

	err2 := s.repo.Create(ctx, &domain.Courier{
		ID:     "c-2",
		Name:   "Awa",
		Phone:  phone,
		Status: domain.StatusAvailable,
	})
	s.ErrorIs(err2, apperr.ErrInvalid, "expected invalid for duplicate phone")
}

func (s *CourierRepositorySuite) TestGetNotFound() {
	ctx := context.Background()

	got, err := s.repo.Get(ctx, "missing")
	s.Require().NoError(err)
	s.Require().Nil(got)
}

func (s *CourierRepositorySuite) TestListWithLimitOffset() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := s.repo.Create(ctx, &domain.Courier{
			ID:     fmt.Sprintf("c-%d", i+1),
			Name:   fmt.Sprintf("C%d", i+1),
			Phone:  fmt.Sprintf("+225070000000%d", i+1),
			Status: domain.StatusAvailable,
		})
		s.Require().NoError(err)
	}

	limit := 2
	offset := 1

	list, err := s.repo.List(ctx, &limit, &offset)
	s.Require().NoError(err)

	s.Len(list, 2)
	s.True(list[0].ID < list[1].ID)
}

func (s *CourierRepositorySuite) TestUpdatePartial() {
	ctx := context.Background()

	err := s.repo.Create(ctx, &domain.Courier{
		ID:     "c-1",
		Name:   "Not Moussa",
		Phone:  "+2250700000001",
		Status: domain.StatusAvailable,
	})
	s.Require().NoError(err)

	newName := "Moussa"
	update := domain.PartialCourierUpdate{
		ID:   "c-1",
		Name: &newName,
	}

	ok, err := s.repo.UpdatePartial(ctx, update)
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.Get(ctx, "c-1")
	s.Require().NoError(err)

	s.Equal(newName, got.Name)
	s.Equal("+2250700000001", got.Phone)
}

func (s *CourierRepositorySuite) TestUpdatePartial_DuplicatePhone() {
	ctx := context.Background()

	phone1 := "+2250700000001"
	err := s.repo.Create(ctx, &domain.Courier{
		ID:     "c-1",
		Name:   "Moussa",
		Phone:  phone1,
		Status: domain.StatusAvailable,
	})
	s.Require().NoError(err)

	err = s.repo.Create(ctx, &domain.Courier{
		ID:     "c-2",
		Name:   "Awa",
		Phone:  "+2250700000002",
		Status: domain.StatusAvailable,
	})
	s.Require().NoError(err)

	updatePhone := phone1
	update := domain.PartialCourierUpdate{
		ID:    "c-2",
		Phone: &updatePhone,
	}

	ok, err := s.repo.UpdatePartial(ctx, update)
	s.False(ok, "row must not be marked as updated on duplicate")
	s.Error(err)
	s.ErrorIs(err, apperr.ErrInvalid, "expected apperr.ErrInvalid on duplicate phone")
}

func (s *CourierRepositorySuite) TestReleaseCourier() {
	ctx := context.Background()

	err := s.repo.Create(ctx, &domain.Courier{
		ID:     "c-1",
		Name:   "Moussa",
		Phone:  "+2250700000001",
		Status: domain.StatusBusy,
	})
	s.Require().NoError(err)

	ok, err := s.repo.ReleaseCourier(ctx, "c-1")
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.Get(ctx, "c-1")
	s.Require().NoError(err)
	s.Equal(domain.StatusAvailable, got.Status)
	s.Nil(got.CurrentDeliveryID)

	ok, err = s.repo.ReleaseCourier(ctx, "c-1")
	s.Require().NoError(err)
	s.False(ok, "releasing an available courier must not match")
}

func (s *CourierRepositorySuite) TestPurgeToken() {
	ctx := context.Background()

	token := "push-token-1"
	err := s.repo.Create(ctx, &domain.Courier{
		ID:     "c-1",
		Name:   "Moussa",
		Phone:  "+2250700000001",
		Status: domain.StatusAvailable,
		Token:  &token,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.PurgeToken(ctx, token))

	got, err := s.repo.Get(ctx, "c-1")
	s.Require().NoError(err)
	s.Nil(got.Token)
}

func (s *CourierRepositorySuite) TestGet_ContextCanceled_ReturnsError() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := s.repo.Get(ctx, "c-1")
	s.Nil(got)
	s.Error(err)
}

func (s *CourierRepositorySuite) TestCreate_ContextCanceled_ReturnsError() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.repo.Create(ctx, &domain.Courier{
		ID:     "c-9",
		Name:   "Moussa",
		Phone:  "+2250700000009",
		Status: domain.StatusAvailable,
	})
	s.Error(err)
	s.ErrorIs(err, context.Canceled)
}

func (s *CourierRepositorySuite) TestList_ContextCanceled_ReturnsError() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	list, err := s.repo.List(ctx, nil, nil)
	s.Nil(list)
	s.Error(err)
	s.ErrorIs(err, context.Canceled)
}

func TestCourierRepositorySuite(t *testing.T) {
	suite.Run(t, new(CourierRepositorySuite))
}
