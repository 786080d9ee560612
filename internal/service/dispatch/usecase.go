package dispatch

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Emmanuel3dev/market-server/internal/apperr"
	"github.com/Emmanuel3dev/market-server/internal/domain"
	"github.com/Emmanuel3dev/market-server/internal/geo"
	"github.com/Emmanuel3dev/market-server/internal/logx"
	"github.com/Emmanuel3dev/market-server/internal/ports/dispatchtx"
)

// NoCourierError carries the boutique→client distance for diagnostics when the
// courier search comes up empty. It matches apperr.ErrNoCourierAvailable.
type NoCourierError struct {
	DistanceKm float64
}

func (e *NoCourierError) Error() string {
	return fmt.Sprintf("no courier available within %.0f km (client distance %.2f km)",
		domain.MaxRadiusKm, e.DistanceKm)
}

// Is makes errors.Is(err, apperr.ErrNoCourierAvailable) hold.
func (e *NoCourierError) Is(target error) bool {
	return target == apperr.ErrNoCourierAvailable
}

// Service - dispatch coordinator: matches a delivery request to the nearest
// eligible courier, reserves it, and records the assignment.
type Service struct {
	repo             dispatchRepository
	gateway          pushGateway
	counters         counterStore
	users            userDirectory
	delayed          delayedSender
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
	newID            func() string
}

// NewService - creates a new dispatch Service. users and delayed are optional;
// when both are set, the client gets an arrival follow-up push at the ETA.
func NewService(r dispatchRepository, gw pushGateway, counters counterStore, users userDirectory, delayed delayedSender, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             r,
		gateway:          gw,
		counters:         counters,
		users:            users,
		delayed:          delayed,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            func() string { return uuid.NewString() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Assign matches the request to the nearest eligible courier and persists the
// assignment. Candidate read, selection, and reservation run in one directory
// transaction; a courier lost to a racing assign is skipped in favor of the
// next nearest.
func (s *Service) Assign(ctx context.Context, req AssignRequest) (domain.AssignResult, error) {
	if err := validateAssign(&req); err != nil {
		return domain.AssignResult{}, err
	}

	clientDistance := geo.DistanceKm(req.BoutiquePos, req.ClientPos)
	cost := Cost(clientDistance)
	now := s.now()
	deliveryID := s.newID()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var result domain.AssignResult

	err := s.repo.WithTx(ctx, func(tx dispatchtx.Directory) error {
		couriers, err := tx.QueryAvailable(ctx)
		if err != nil {
			return err
		}

		ranked := geo.Rank(req.BoutiquePos, couriers, now)
		if len(ranked) == 0 {
			return &NoCourierError{DistanceKm: clientDistance}
		}

		for _, candidate := range ranked {
			reserved, err := tx.TryReserve(ctx, candidate.Courier.ID, deliveryID)
			if err != nil {
				return err
			}
			if !reserved {
				// lost to a concurrent assign, try the next nearest
				continue
			}

			d := &domain.Delivery{
				ID:           deliveryID,
				BoutiqueID:   req.BoutiqueID,
				ClientID:     req.ClientID,
				BoutiquePos:  req.BoutiquePos,
				ClientPos:    req.ClientPos,
				CourierID:    candidate.Courier.ID,
				DistanceKm:   clientDistance,
				Cost:         cost,
				Status:       domain.DeliveryAssigned,
				OrderDetails: req.OrderDetails,
				CreatedAt:    now,
				AssignedAt:   now,
			}
			if err := tx.InsertDelivery(ctx, d); err != nil {
				return err
			}

			result = domain.AssignResult{
				DeliveryID:    deliveryID,
				CourierID:     candidate.Courier.ID,
				CourierName:   candidate.Courier.Name,
				DistanceKm:    round2(clientDistance),
				Cost:          cost,
				EstimatedMins: EstimatedMinutes(clientDistance),
			}
			s.notifyCourier(candidate.Courier, req.BoutiqueID)
			return nil
		}

		return &NoCourierError{DistanceKm: clientDistance}
	})
	if err != nil {
		return domain.AssignResult{}, err
	}

	s.bumpClientCounter(req.ClientID, now)
	s.scheduleArrivalFollowUp(req.ClientID, now, result.EstimatedMins)

	s.logger.Info("delivery assigned",
		logx.String("event", "delivery_assigned"),
		logx.String("delivery_id", result.DeliveryID),
		logx.String("courier_id", result.CourierID),
		logx.String("boutique_id", req.BoutiqueID),
		logx.Float64("distance_km", result.DistanceKm),
		logx.Float64("cost", result.Cost),
	)

	return result, nil
}

// notifyCourier pushes the new-delivery alert. Failures are logged and
// swallowed; notification is never part of the assignment outcome.
func (s *Service) notifyCourier(c *domain.Courier, boutiqueID string) {
	if s.gateway == nil || c.Token == nil || *c.Token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.gateway.Send(ctx, *c.Token,
		"Nouvelle livraison",
		fmt.Sprintf("Une commande de la boutique %s vous a été assignée.", boutiqueID))
	if err != nil {
		s.logger.Warn("courier push failed",
			logx.String("courier_id", c.ID),
			logx.Any("err", err),
		)
	}
}

// scheduleArrivalFollowUp queues a push to the client at the estimated arrival
// instant. Pending follow-ups live in process memory only and a restart drops
// them; the assignment itself is unaffected either way.
func (s *Service) scheduleArrivalFollowUp(clientID string, now time.Time, estimatedMins int) {
	if s.users == nil || s.delayed == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	u, err := s.users.Get(ctx, clientID)
	if err != nil {
		s.logger.Warn("client lookup for follow-up failed",
			logx.String("client_id", clientID), logx.Any("err", err))
		return
	}
	if u == nil || u.Token == nil || *u.Token == "" {
		return
	}
	s.delayed.SendAt(now.Add(time.Duration(estimatedMins)*time.Minute), *u.Token,
		"Votre livraison arrive",
		"Votre commande devrait être livrée dans quelques instants.")
}

// bumpClientCounter records one more daily order for the client, best-effort.
func (s *Service) bumpClientCounter(clientID string, now time.Time) {
	if s.counters == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.counters.Increment(ctx, clientID, now); err != nil {
		s.logger.Warn("daily counter increment failed",
			logx.String("client_id", clientID),
			logx.Any("err", err),
		)
	}
}

func validateAssign(req *AssignRequest) error {
	if strings.TrimSpace(req.BoutiqueID) == "" || strings.TrimSpace(req.ClientID) == "" {
		return apperr.ErrInvalid
	}
	if strings.TrimSpace(req.OrderDetails) == "" {
		return apperr.ErrInvalid
	}
	if !req.BoutiquePos.Valid() || !req.ClientPos.Valid() {
		return apperr.ErrInvalid
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
