package approve_booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ShareItService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ShareItService/pkg/logger"
	"github.com/m04kA/SMC-ShareItService/pkg/metrics"
	"github.com/m04kA/SMC-ShareItService/pkg/txmanager"
)

var now = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db      *sql.DB
	repo    *bookingRepo.Repository
	metrics *metrics.Metrics
	owner   int64
	booker  int64
	booking int64
}

func newFixture(t *testing.T) *fixture {
	db := storagetest.Open(t)
	owner := storagetest.InsertUser(t, db, "owner")
	booker := storagetest.InsertUser(t, db, "booker")
	item := storagetest.InsertItem(t, db, owner, "drill", true)
	booking := storagetest.InsertBooking(t, db, item, booker, now.Add(24*time.Hour), now.Add(48*time.Hour), "WAITING")

	return &fixture{
		db:      db,
		repo:    bookingRepo.NewRepository(db),
		metrics: metrics.NewWithRegistry("test", prometheus.NewRegistry()),
		owner:   owner,
		booker:  booker,
		booking: booking,
	}
}

func (f *fixture) useCase(repo BookingRepository) *UseCase {
	return NewUseCase(repo, txmanager.NewSimpleTransactionManager(f.db), f.metrics, logger.Nop())
}

func TestUseCase_Execute_Lifecycle(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(f.repo)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, &Request{OwnerID: f.owner, BookingID: f.booking, Approved: true})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingDecisions.WithLabelValues("approved")))

	// Повторное решение отклоняется, а не принимается молча
	_, err = uc.Execute(ctx, &Request{OwnerID: f.owner, BookingID: f.booking, Approved: true})
	require.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Equal(t, "status already changed", err.Error())

	stored, err := f.repo.GetByID(ctx, f.booking)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)
	assert.Equal(t, int64(2), stored.Version)
}

func TestUseCase_Execute_Reject(t *testing.T) {
	f := newFixture(t)

	resp, err := f.useCase(f.repo).Execute(context.Background(), &Request{OwnerID: f.owner, BookingID: f.booking, Approved: false})
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", resp.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingDecisions.WithLabelValues("rejected")))
}

func TestUseCase_Execute_NotOwner(t *testing.T) {
	f := newFixture(t)

	for _, userID := range []int64{f.booker, 999} {
		_, err := f.useCase(f.repo).Execute(context.Background(), &Request{OwnerID: userID, BookingID: f.booking, Approved: true})
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, "invalid owner", err.Error())
		assert.Equal(t, domain.ReasonForbidden, domain.ReasonOf(err))
	}
}

func TestUseCase_Execute_Missing(t *testing.T) {
	f := newFixture(t)

	_, err := f.useCase(f.repo).Execute(context.Background(), &Request{OwnerID: f.owner, BookingID: 999, Approved: true})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.ReasonMissing, domain.ReasonOf(err))
}

// racingRepo имитирует второй запрос владельца, который успел принять решение
// между чтением бронирования и записью первого запроса.
type racingRepo struct {
	*bookingRepo.Repository
}

func (r racingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	observed, err := r.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	competitor, err := r.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Repository.UpdateStatus(ctx, competitor, domain.StatusRejected); err != nil {
		return nil, err
	}

	return observed, nil
}

func TestUseCase_Execute_ConcurrentApprovalIsDetected(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(racingRepo{f.repo})

	_, err := uc.Execute(context.Background(), &Request{OwnerID: f.owner, BookingID: f.booking, Approved: true})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "booking was modified concurrently", err.Error())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingConflicts))

	// Транзакция откатилась целиком: решение конкурента тоже не сохранилось
	stored, err := f.repo.GetByID(context.Background(), f.booking)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaiting, stored.Status)
	assert.Equal(t, int64(1), stored.Version)
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, booking *domain.Booking, status domain.BookingStatus) error {
	return m.Called(ctx, booking, status).Error(0)
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestUseCase_Execute_VersionConflictFromStore(t *testing.T) {
	repo := &mockRepo{}
	booking := &domain.Booking{ID: 1, OwnerID: 5, Status: domain.StatusWaiting, Version: 3}
	repo.On("GetByID", mock.Anything, int64(1)).Return(booking, nil)
	repo.On("UpdateStatus", mock.Anything, booking, domain.StatusApproved).Return(bookingRepo.ErrVersionConflict)

	uc := NewUseCase(repo, passThroughTx{}, (*metrics.Metrics)(nil), logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{OwnerID: 5, BookingID: 1, Approved: true})
	assert.ErrorIs(t, err, domain.ErrConflict)
	repo.AssertExpectations(t)
}

func TestUseCase_Execute_StoreFailure(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByID", mock.Anything, int64(1)).Return(nil, errors.New("connection reset"))

	uc := NewUseCase(repo, passThroughTx{}, (*metrics.Metrics)(nil), logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{OwnerID: 5, BookingID: 1, Approved: true})
	assert.ErrorIs(t, err, ErrInternal)
}
