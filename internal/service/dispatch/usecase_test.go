package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Emmanuel3dev/market-server/internal/apperr"
	"github.com/Emmanuel3dev/market-server/internal/domain"
	"github.com/Emmanuel3dev/market-server/internal/logx"
	"github.com/Emmanuel3dev/market-server/internal/ports/dispatchtx"
)

type stubDirectory struct {
	couriers   []*domain.Courier
	queryErr   error
	reserveErr error
	insertErr  error

	// courier ids for which TryReserve reports a lost race
	contested map[string]bool

	reserveCalls []string
	inserted     []*domain.Delivery
}

func (d *stubDirectory) QueryAvailable(ctx context.Context) ([]*domain.Courier, error) {
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	return d.couriers, nil
}

func (d *stubDirectory) TryReserve(ctx context.Context, courierID, deliveryID string) (bool, error) {
	d.reserveCalls = append(d.reserveCalls, courierID)
	if d.reserveErr != nil {
		return false, d.reserveErr
	}
	return !d.contested[courierID], nil
}

func (d *stubDirectory) InsertDelivery(ctx context.Context, delivery *domain.Delivery) error {
	if d.insertErr != nil {
		return d.insertErr
	}
	d.inserted = append(d.inserted, delivery)
	return nil
}

type stubRepo struct {
	dir      *stubDirectory
	txErr    error
	rollback bool
}

func (r *stubRepo) WithTx(ctx context.Context, fn func(tx dispatchtx.Directory) error) error {
	if r.txErr != nil {
		return r.txErr
	}
	if err := fn(r.dir); err != nil {
		r.rollback = true
		return err
	}
	return nil
}

type stubPush struct {
	mu    sync.Mutex
	sends []string
	err   error
}

func (p *stubPush) Send(ctx context.Context, token, title, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sends = append(p.sends, token)
	return p.err
}

func (p *stubPush) sent() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.sends...)
}

type stubCounters struct {
	mu    sync.Mutex
	bumps []string
	err   error
}

func (c *stubCounters) Increment(ctx context.Context, userID string, now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bumps = append(c.bumps, userID)
	return c.err
}

func (c *stubCounters) bumped() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.bumps...)
}

func allWeek() domain.WeeklySchedule {
	s := domain.WeeklySchedule{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		s[d] = domain.DaySchedule{Active: true, Start: "00:00", End: "23:59"}
	}
	return s
}

func testCourier(id string, lat, lon float64) *domain.Courier {
	token := "token-" + id
	return &domain.Courier{
		ID:       id,
		Name:     "Courier " + id,
		Status:   domain.StatusAvailable,
		Position: &domain.GeoPoint{Lat: lat, Lon: lon},
		Schedule: allWeek(),
		Token:    &token,
	}
}

var (
	// Abidjan, Plateau
	boutiquePos = domain.GeoPoint{Lat: 5.3252, Lon: -4.0229}
	// ~5.5 km north-east
	clientPos = domain.GeoPoint{Lat: 5.3600, Lon: -3.9900}
)

func validRequest() AssignRequest {
	return AssignRequest{
		BoutiqueID:   "boutique-1",
		ClientID:     "client-1",
		BoutiquePos:  boutiquePos,
		ClientPos:    clientPos,
		OrderDetails: "2x attiéké poisson",
	}
}

type stubUsers struct {
	users map[string]*domain.User
}

func (s *stubUsers) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users[id], nil
}

type stubDelayed struct {
	mu        sync.Mutex
	schedules []time.Time
	tokens    []string
}

func (s *stubDelayed) SendAt(at time.Time, token, title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, at)
	s.tokens = append(s.tokens, token)
}

func newTestService(repo *stubRepo, gw *stubPush, counters *stubCounters) *Service {
	svc := NewService(repo, gw, counters, nil, nil, time.Second, logx.Nop())
	svc.now = func() time.Time {
		return time.Date(2024, time.March, 12, 14, 30, 0, 0, time.UTC)
	}
	svc.newID = func() string { return "delivery-1" }
	return svc
}

func TestAssignPicksNearestCourier(t *testing.T) {
	t.Parallel()

	dir := &stubDirectory{
		couriers: []*domain.Courier{
			testCourier("courier-far", 5.40, -4.02),
			testCourier("courier-near", 5.33, -4.02),
		},
	}
	repo := &stubRepo{dir: dir}
	gw := &stubPush{}
	counters := &stubCounters{}
	svc := newTestService(repo, gw, counters)

	res, err := svc.Assign(context.Background(), validRequest())
	require.NoError(t, err)

	require.Equal(t, "delivery-1", res.DeliveryID)
	require.Equal(t, "courier-near", res.CourierID)
	require.Equal(t, "Courier courier-near", res.CourierName)
	require.Greater(t, res.DistanceKm, 0.0)
	require.Equal(t, Cost(res.DistanceKm), res.Cost)
	require.Equal(t, []string{"courier-near"}, dir.reserveCalls)

	require.Len(t, dir.inserted, 1)
	d := dir.inserted[0]
	require.Equal(t, "delivery-1", d.ID)
	require.Equal(t, "courier-near", d.CourierID)
	require.Equal(t, domain.DeliveryAssigned, d.Status)
	require.Equal(t, "boutique-1", d.BoutiqueID)
	require.Equal(t, d.CreatedAt, d.AssignedAt)

	require.Equal(t, []string{"token-courier-near"}, gw.sent())
	require.Equal(t, []string{"client-1"}, counters.bumped())
}

func TestAssignCostUsesClientDistance(t *testing.T) {
	t.Parallel()

	// courier far from the boutique, client right next to it
	dir := &stubDirectory{couriers: []*domain.Courier{testCourier("c1", 5.40, -4.02)}}
	svc := newTestService(&stubRepo{dir: dir}, &stubPush{}, &stubCounters{})

	req := validRequest()
	req.ClientPos = domain.GeoPoint{Lat: 5.3253, Lon: -4.0229}

	res, err := svc.Assign(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 500.0, res.Cost)
}

func TestAssignValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*AssignRequest)
	}{
		{name: "missing boutique id", mutate: func(r *AssignRequest) { r.BoutiqueID = " " }},
		{name: "missing client id", mutate: func(r *AssignRequest) { r.ClientID = "" }},
		{name: "missing order details", mutate: func(r *AssignRequest) { r.OrderDetails = "" }},
		{name: "latitude out of range", mutate: func(r *AssignRequest) { r.BoutiquePos.Lat = 91 }},
		{name: "longitude out of range", mutate: func(r *AssignRequest) { r.ClientPos.Lon = -181 }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := &stubDirectory{couriers: []*domain.Courier{testCourier("c1", 5.33, -4.02)}}
			repo := &stubRepo{dir: dir}
			svc := newTestService(repo, &stubPush{}, &stubCounters{})

			req := validRequest()
			tc.mutate(&req)

			_, err := svc.Assign(context.Background(), req)
			require.ErrorIs(t, err, apperr.ErrInvalid)
			require.Empty(t, dir.reserveCalls)
			require.Empty(t, dir.inserted)
		})
	}
}

func TestAssignNoCourierAvailable(t *testing.T) {
	t.Parallel()

	busy := testCourier("c-busy", 5.33, -4.02)
	busy.Status = domain.StatusBusy
	outOfRange := testCourier("c-far", 5.60, -4.02)

	dir := &stubDirectory{couriers: []*domain.Courier{busy, outOfRange}}
	repo := &stubRepo{dir: dir}
	counters := &stubCounters{}
	svc := newTestService(repo, &stubPush{}, counters)

	_, err := svc.Assign(context.Background(), validRequest())
	require.ErrorIs(t, err, apperr.ErrNoCourierAvailable)

	var noCourier *NoCourierError
	require.ErrorAs(t, err, &noCourier)
	require.Greater(t, noCourier.DistanceKm, 0.0)

	require.Empty(t, dir.inserted)
	require.Empty(t, counters.bumped())
	require.True(t, repo.rollback)
}

func TestAssignFallsBackWhenReservationIsLost(t *testing.T) {
	t.Parallel()

	dir := &stubDirectory{
		couriers: []*domain.Courier{
			testCourier("c-near", 5.33, -4.02),
			testCourier("c-next", 5.34, -4.02),
		},
		contested: map[string]bool{"c-near": true},
	}
	svc := newTestService(&stubRepo{dir: dir}, &stubPush{}, &stubCounters{})

	res, err := svc.Assign(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, "c-next", res.CourierID)
	require.Equal(t, []string{"c-near", "c-next"}, dir.reserveCalls)
}

func TestAssignAllReservationsLost(t *testing.T) {
	t.Parallel()

	dir := &stubDirectory{
		couriers:  []*domain.Courier{testCourier("c1", 5.33, -4.02)},
		contested: map[string]bool{"c1": true},
	}
	svc := newTestService(&stubRepo{dir: dir}, &stubPush{}, &stubCounters{})

	_, err := svc.Assign(context.Background(), validRequest())
	require.ErrorIs(t, err, apperr.ErrNoCourierAvailable)
	require.Empty(t, dir.inserted)
}

func TestAssignRepositoryErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")

	t.Run("query fails", func(t *testing.T) {
		t.Parallel()
		dir := &stubDirectory{queryErr: boom}
		svc := newTestService(&stubRepo{dir: dir}, &stubPush{}, &stubCounters{})

		_, err := svc.Assign(context.Background(), validRequest())
		require.ErrorIs(t, err, boom)
	})

	t.Run("insert fails", func(t *testing.T) {
		t.Parallel()
		dir := &stubDirectory{
			couriers:  []*domain.Courier{testCourier("c1", 5.33, -4.02)},
			insertErr: boom,
		}
		counters := &stubCounters{}
		svc := newTestService(&stubRepo{dir: dir}, &stubPush{}, counters)

		_, err := svc.Assign(context.Background(), validRequest())
		require.ErrorIs(t, err, boom)
		require.Empty(t, counters.bumped())
	})
}

func TestAssignPushFailureDoesNotFailAssignment(t *testing.T) {
	t.Parallel()

	dir := &stubDirectory{couriers: []*domain.Courier{testCourier("c1", 5.33, -4.02)}}
	gw := &stubPush{err: errors.New("fcm unavailable")}
	svc := newTestService(&stubRepo{dir: dir}, gw, &stubCounters{})

	res, err := svc.Assign(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, "c1", res.CourierID)
	require.Len(t, dir.inserted, 1)
}

func TestAssignSchedulesArrivalFollowUp(t *testing.T) {
	t.Parallel()

	dir := &stubDirectory{couriers: []*domain.Courier{testCourier("c1", 5.33, -4.02)}}
	clientToken := "client-token-1"
	users := &stubUsers{users: map[string]*domain.User{
		"client-1": {ID: "client-1", Token: &clientToken},
	}}
	delayed := &stubDelayed{}

	svc := newTestService(&stubRepo{dir: dir}, &stubPush{}, &stubCounters{})
	svc.users = users
	svc.delayed = delayed

	res, err := svc.Assign(context.Background(), validRequest())
	require.NoError(t, err)

	require.Equal(t, []string{clientToken}, delayed.tokens)
	require.Len(t, delayed.schedules, 1)
	want := svc.now().Add(time.Duration(res.EstimatedMins) * time.Minute)
	require.Equal(t, want, delayed.schedules[0])
}

func TestAssignNoFollowUpWithoutClientToken(t *testing.T) {
	t.Parallel()

	dir := &stubDirectory{couriers: []*domain.Courier{testCourier("c1", 5.33, -4.02)}}
	users := &stubUsers{users: map[string]*domain.User{
		"client-1": {ID: "client-1"},
	}}
	delayed := &stubDelayed{}

	svc := newTestService(&stubRepo{dir: dir}, &stubPush{}, &stubCounters{})
	svc.users = users
	svc.delayed = delayed

	_, err := svc.Assign(context.Background(), validRequest())
	require.NoError(t, err)
	require.Empty(t, delayed.tokens)
}

func TestAssignCounterFailureDoesNotFailAssignment(t *testing.T) {
	t.Parallel()

	dir := &stubDirectory{couriers: []*domain.Courier{testCourier("c1", 5.33, -4.02)}}
	counters := &stubCounters{err: errors.New("redis down")}
	svc := newTestService(&stubRepo{dir: dir}, &stubPush{}, counters)

	res, err := svc.Assign(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, "c1", res.CourierID)
}
