package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"pharmacy-system/internal/dto"
	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/events"
	apperrors "pharmacy-system/pkg/errors"
	"pharmacy-system/pkg/eventbus"
	"pharmacy-system/pkg/types"
)

type ReservationServiceSuite struct {
	suite.Suite
	env *testEnv
}

func (s *ReservationServiceSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.env.seedProduct(s.T(), "3", "10")
	s.env.seedBranch(s.T(), "1", entities.BranchStatusActive)
	s.env.seedBranch(s.T(), "2", entities.BranchStatusSuspended)
}

func TestReservationServiceSuite(t *testing.T) {
	suite.Run(t, new(ReservationServiceSuite))
}

func (s *ReservationServiceSuite) create(ctx context.Context, qty int) *dto.ReservationDTO {
	res, err := s.env.reservations.CreateReservation(ctx, dto.CreateReservationDTO{
		ProductID: "3", Quantity: qty, BranchID: "1",
	})
	s.Require().NoError(err)
	return res
}

func (s *ReservationServiceSuite) TestCreate_PendingWithExpiryAndStockDecrement() {
	res := s.create(clientCtx("c1"), 2)

	s.Equal(string(entities.ReservationStatusPending), res.Status)
	s.Equal(2, res.Quantity)
	s.Equal(testStart, res.CreatedAt)
	s.Equal(testStart.Add(86_400_000*time.Millisecond), res.ExpiresAt)
	s.Equal("c1", res.CustomerID)
	s.Equal("Sucursal 1", res.BranchName)
	s.Equal(string(entities.DisplayStatusActive), res.DisplayStatus)
	s.Equal("8", s.env.stockOf(s.T(), "3"))
}

func (s *ReservationServiceSuite) TestCreate_Validation() {
	ctx := clientCtx("c1")

	_, err := s.env.reservations.CreateReservation(ctx, dto.CreateReservationDTO{ProductID: "3", Quantity: 0, BranchID: "1"})
	s.ErrorIs(err, apperrors.ErrInvalidQuantity)

	_, err = s.env.reservations.CreateReservation(ctx, dto.CreateReservationDTO{ProductID: "3", Quantity: 11, BranchID: "1"})
	s.ErrorIs(err, apperrors.ErrInsufficientStock)

	_, err = s.env.reservations.CreateReservation(ctx, dto.CreateReservationDTO{ProductID: "3", Quantity: 1, BranchID: "2"})
	s.ErrorIs(err, apperrors.ErrBranchInactive)

	_, err = s.env.reservations.CreateReservation(ctx, dto.CreateReservationDTO{ProductID: "404", Quantity: 1, BranchID: "1"})
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.env.reservations.CreateReservation(context.Background(), dto.CreateReservationDTO{ProductID: "3", Quantity: 1, BranchID: "1"})
	s.ErrorIs(err, apperrors.ErrUnauthorized)

	s.Equal("10", s.env.stockOf(s.T(), "3"))
}

func (s *ReservationServiceSuite) TestCreate_CannotOverbook() {
	s.create(clientCtx("c1"), 6)

	_, err := s.env.reservations.CreateReservation(clientCtx("c2"), dto.CreateReservationDTO{
		ProductID: "3", Quantity: 5, BranchID: "1",
	})
	s.ErrorIs(err, apperrors.ErrInsufficientStock)
	s.Equal("4", s.env.stockOf(s.T(), "3"))
}

func (s *ReservationServiceSuite) TestCreate_ConcurrentRequestsNeverOversell() {
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.env.reservations.CreateReservation(clientCtx("c1"), dto.CreateReservationDTO{
				ProductID: "3", Quantity: 1, BranchID: "1",
			})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(10, created)
	s.Equal("0", s.env.stockOf(s.T(), "3"))
}

func (s *ReservationServiceSuite) TestCancel_IsIdempotentAndRestoresStockOnce() {
	ctx := clientCtx("c1")
	res := s.create(ctx, 3)

	first, err := s.env.reservations.CancelReservation(ctx, res.ID)
	s.Require().NoError(err)
	second, err := s.env.reservations.CancelReservation(ctx, res.ID)
	s.Require().NoError(err)

	s.Equal(first.Status, second.Status)
	s.Equal(string(entities.ReservationStatusCancelled), second.Status)
	s.Equal("10", s.env.stockOf(s.T(), "3"))
}

func (s *ReservationServiceSuite) TestCancel_UnknownIDIsError() {
	_, err := s.env.reservations.CancelReservation(clientCtx("c1"), "RES-100")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReservationServiceSuite) TestCancel_ForeignReservationForbidden() {
	res := s.create(clientCtx("c1"), 1)

	_, err := s.env.reservations.CancelReservation(clientCtx("c2"), res.ID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.env.reservations.CancelReservation(adminCtx(), res.ID)
	s.NoError(err)
}

func (s *ReservationServiceSuite) TestConfirm_Transitions() {
	ctx := clientCtx("c1")
	res := s.create(ctx, 2)

	done, err := s.env.reservations.ConfirmPickup(adminCtx(), res.ID)
	s.Require().NoError(err)
	s.Equal(string(entities.ReservationStatusCompleted), done.Status)
	s.Equal(string(entities.DisplayStatusCollected), done.DisplayStatus)
	s.Equal("8", s.env.stockOf(s.T(), "3"))

	again, err := s.env.reservations.ConfirmPickup(adminCtx(), res.ID)
	s.Require().NoError(err)
	s.Equal(done.Status, again.Status)

	_, err = s.env.reservations.CancelReservation(ctx, res.ID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	cancelled := s.create(ctx, 1)
	_, err = s.env.reservations.CancelReservation(ctx, cancelled.ID)
	s.Require().NoError(err)
	_, err = s.env.reservations.ConfirmPickup(adminCtx(), cancelled.ID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *ReservationServiceSuite) TestConfirm_ExpiredRejected() {
	res := s.create(clientCtx("c1"), 1)
	s.env.clock.Advance(24 * time.Hour)

	_, err := s.env.reservations.ConfirmPickup(adminCtx(), res.ID)
	s.ErrorIs(err, apperrors.ErrReservationExpired)
}

func (s *ReservationServiceSuite) TestList_ActiveFilterExcludesCompleted() {
	ctx := clientCtx("c1")
	pending := s.create(ctx, 1)
	completed := s.create(ctx, 1)
	_, err := s.env.reservations.ConfirmPickup(adminCtx(), completed.ID)
	s.Require().NoError(err)

	list, total, err := s.env.reservations.ListReservations(ctx, types.Filter{
		Filter: map[string]interface{}{"status": "active"},
	})
	s.Require().NoError(err)
	s.Equal(uint64(1), total)
	s.Require().Len(list, 1)
	s.Equal(pending.ID, list[0].ID)
}

func (s *ReservationServiceSuite) TestList_EnglishPersistedStatusFilter() {
	ctx := clientCtx("c1")
	s.create(ctx, 1)
	completed := s.create(ctx, 1)
	_, err := s.env.reservations.ConfirmPickup(adminCtx(), completed.ID)
	s.Require().NoError(err)

	list, total, err := s.env.reservations.ListReservations(ctx, types.Filter{
		Filter: map[string]interface{}{"status": "completed"},
	})
	s.Require().NoError(err)
	s.Equal(uint64(1), total)
	s.Require().Len(list, 1)
	s.Equal(completed.ID, list[0].ID)

	_, total, err = s.env.reservations.ListReservations(ctx, types.Filter{
		Filter: map[string]interface{}{"status": "pending"},
	})
	s.Require().NoError(err)
	s.Equal(uint64(1), total)
}

func (s *ReservationServiceSuite) TestList_DerivesExpiredAndDropsOrphans() {
	ctx := clientCtx("c1")
	res := s.create(ctx, 1)
	_, err := s.env.store.CreateReservation(context.Background(), entities.Reservation{
		ProductID: "gone", Quantity: 1, CreatedAt: testStart, Date: testStart,
		Status: entities.ReservationStatusPending, CustomerID: "c1",
	})
	s.Require().NoError(err)

	s.env.clock.Advance(25 * time.Hour)

	list, _, err := s.env.reservations.ListMyReservations(ctx, types.Filter{})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(res.ID, list[0].ID)
	s.Equal(string(entities.DisplayStatusExpired), list[0].DisplayStatus)
	s.Equal(string(entities.ReservationStatusPending), list[0].Status)
}

func (s *ReservationServiceSuite) TestListMy_OnlyOwnReservations() {
	s.create(clientCtx("c1"), 1)
	s.create(clientCtx("c2"), 1)

	list, _, err := s.env.reservations.ListMyReservations(clientCtx("c2"), types.Filter{
		Filter: map[string]interface{}{"customer_id": "c1"},
	})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("c2", list[0].CustomerID)
}

func (s *ReservationServiceSuite) TestSweepExpired_CancelsAndRestoresStock() {
	ctx := clientCtx("c1")
	old := s.create(ctx, 2)
	s.env.clock.Advance(23 * time.Hour)
	fresh := s.create(ctx, 1)
	s.env.clock.Advance(time.Hour)

	result, err := s.env.reservations.SweepExpired(context.Background())
	s.Require().NoError(err)
	s.Equal([]string{old.ID}, result.Cancelled)
	s.Empty(result.Failed)
	s.Equal("9", s.env.stockOf(s.T(), "3"))

	got, err := s.env.reservations.FindReservation(adminCtx(), fresh.ID)
	s.Require().NoError(err)
	s.Equal(string(entities.ReservationStatusPending), got.Status)

	result, err = s.env.reservations.SweepExpired(context.Background())
	s.Require().NoError(err)
	s.Empty(result.Cancelled)
}

func (s *ReservationServiceSuite) TestDelete_PendingRestoresStock() {
	res := s.create(clientCtx("c1"), 4)
	s.Require().NoError(s.env.reservations.DeleteReservation(adminCtx(), res.ID))
	s.Equal("10", s.env.stockOf(s.T(), "3"))

	_, err := s.env.reservations.FindReservation(adminCtx(), res.ID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReservationServiceSuite) TestEventsPublished() {
	received := make(chan string, 4)
	listener := func(_ context.Context, e eventbus.Event) error {
		received <- e.Name()
		return nil
	}
	s.env.bus.Subscribe(events.ReservationCreated, listener)
	s.env.bus.Subscribe(events.ReservationCancelled, listener)

	res := s.create(clientCtx("c1"), 1)
	_, err := s.env.reservations.CancelReservation(clientCtx("c1"), res.ID)
	s.Require().NoError(err)
	s.env.bus.Wait()
	close(received)

	var names []string
	for n := range received {
		names = append(names, n)
	}
	s.ElementsMatch([]string{events.ReservationCreated, events.ReservationCancelled}, names)
}

func TestLocker_BusyKeyReturnsResourceBusy(t *testing.T) {
	env := newTestEnv(t)
	locker := NewLocker(env.cache, time.Minute, zap.NewNop())
	locker.wait = 100 * time.Millisecond

	unlock, err := locker.Lock(context.Background(), "product:1")
	require.NoError(t, err)

	_, err = locker.Lock(context.Background(), "product:1")
	assert.ErrorIs(t, err, apperrors.ErrResourceBusy)

	unlock()
	unlock2, err := locker.Lock(context.Background(), "product:1")
	require.NoError(t, err)
	unlock2()
}
