package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ShareItService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ShareItService/pkg/logger"
	"github.com/m04kA/SMC-ShareItService/pkg/ptr"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

var now = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func newService() (*Service, *mockBookingRepo, *mockUsers) {
	repo := &mockBookingRepo{}
	users := &mockUsers{}
	return NewService(repo, users, fixedTime{now: now}, logger.Nop()), repo, users
}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:         10,
		Start:      now.Add(24 * time.Hour),
		End:        now.Add(48 * time.Hour),
		ItemID:     3,
		ItemName:   "drill",
		OwnerID:    1,
		BookerID:   2,
		BookerName: "bob",
		Status:     domain.StatusWaiting,
		Version:    1,
	}
}

func TestService_GetByID_Participants(t *testing.T) {
	for _, userID := range []int64{1, 2} {
		svc, repo, _ := newService()
		repo.On("GetByID", mock.Anything, int64(10)).Return(sampleBooking(), nil)

		resp, err := svc.GetByID(context.Background(), 10, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.ID)
		assert.Equal(t, "2026-05-11T12:00:00", resp.Start)
		assert.Equal(t, "2026-05-12T12:00:00", resp.End)
		assert.Equal(t, "WAITING", resp.Status)
		assert.Equal(t, models.ItemShort{ID: 3, Name: "drill"}, resp.Item)
		assert.Equal(t, models.BookerShort{ID: 2, Name: "bob"}, resp.Booker)
	}
}

func TestService_GetByID_StrangerGetsNotFound(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("GetByID", mock.Anything, int64(10)).Return(sampleBooking(), nil)

	_, err := svc.GetByID(context.Background(), 10, 99)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "invalid user", err.Error())
	assert.Equal(t, domain.ReasonForbidden, domain.ReasonOf(err))
}

func TestService_GetByID_Missing(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("GetByID", mock.Anything, int64(10)).Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := svc.GetByID(context.Background(), 10, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.ReasonMissing, domain.ReasonOf(err))
}

func TestService_GetByID_RepositoryFailure(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("GetByID", mock.Anything, int64(10)).Return(nil, errors.New("connection reset"))

	_, err := svc.GetByID(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_ListForBooker(t *testing.T) {
	svc, repo, users := newService()
	users.On("Exists", mock.Anything, int64(2)).Return(true, nil)
	repo.On("List", mock.Anything, domain.BookingsFilter{
		Role:   domain.RoleBooker,
		UserID: 2,
		State:  domain.StateFuture,
		Now:    now,
		Page:   domain.Page{Offset: 0, Limit: 10},
	}).Return([]*domain.Booking{sampleBooking()}, nil)

	resp, err := svc.ListForBooker(context.Background(), &models.ListBookingsRequest{
		UserID: 2, State: "FUTURE", From: ptr.Ptr(0), Size: ptr.Ptr(10),
	})
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, int64(10), resp[0].ID)
	repo.AssertExpectations(t)
}

func TestService_ListForOwner_DefaultsToAllUnbounded(t *testing.T) {
	svc, repo, users := newService()
	users.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	repo.On("List", mock.Anything, domain.BookingsFilter{
		Role:   domain.RoleOwner,
		UserID: 1,
		State:  domain.StateAll,
		Now:    now,
	}).Return(nil, nil)

	resp, err := svc.ListForOwner(context.Background(), &models.ListBookingsRequest{UserID: 1})
	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, resp)
	repo.AssertExpectations(t)
}

func TestService_List_PageIsAlignedToSize(t *testing.T) {
	svc, repo, users := newService()
	users.On("Exists", mock.Anything, int64(2)).Return(true, nil)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f domain.BookingsFilter) bool {
		return f.Page == domain.Page{Offset: 5, Limit: 5}
	})).Return([]*domain.Booking{}, nil)

	_, err := svc.ListForBooker(context.Background(), &models.ListBookingsRequest{
		UserID: 2, From: ptr.Ptr(7), Size: ptr.Ptr(5),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_List_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.ListBookingsRequest
		message string
	}{
		{
			name:    "unknown state",
			req:     &models.ListBookingsRequest{UserID: 2, State: "UNSUPPORTED_STATUS"},
			message: "Unknown state: UNSUPPORTED_STATUS",
		},
		{
			name:    "lowercase state",
			req:     &models.ListBookingsRequest{UserID: 2, State: "all"},
			message: "Unknown state: all",
		},
		{
			name:    "zero size",
			req:     &models.ListBookingsRequest{UserID: 2, From: ptr.Ptr(0), Size: ptr.Ptr(0)},
			message: "size must be greater than 0",
		},
		{
			name:    "negative from",
			req:     &models.ListBookingsRequest{UserID: 2, From: ptr.Ptr(-1), Size: ptr.Ptr(10)},
			message: "from must not be negative",
		},
		{
			name:    "zero size without from",
			req:     &models.ListBookingsRequest{UserID: 2, Size: ptr.Ptr(0)},
			message: "size must be greater than 0",
		},
		{
			name:    "negative from without size",
			req:     &models.ListBookingsRequest{UserID: 2, From: ptr.Ptr(-1)},
			message: "from must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Справочник пользователей не должен вызываться до валидации
			svc, repo, users := newService()

			_, err := svc.ListForOwner(context.Background(), tt.req)
			require.ErrorIs(t, err, domain.ErrBadRequest)
			assert.Equal(t, tt.message, err.Error())
			users.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestService_List_PartialPageIsUnbounded(t *testing.T) {
	tests := []struct {
		name string
		req  *models.ListBookingsRequest
	}{
		{name: "size only", req: &models.ListBookingsRequest{UserID: 2, Size: ptr.Ptr(3)}},
		{name: "from only", req: &models.ListBookingsRequest{UserID: 2, From: ptr.Ptr(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, users := newService()
			users.On("Exists", mock.Anything, int64(2)).Return(true, nil)
			repo.On("List", mock.Anything, mock.MatchedBy(func(f domain.BookingsFilter) bool {
				return f.Page.IsUnbounded()
			})).Return([]*domain.Booking{}, nil)

			_, err := svc.ListForBooker(context.Background(), tt.req)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_List_UnknownUser(t *testing.T) {
	svc, repo, users := newService()
	users.On("Exists", mock.Anything, int64(42)).Return(false, nil)

	_, err := svc.ListForBooker(context.Background(), &models.ListBookingsRequest{UserID: 42})
	require.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestService_List_Failures(t *testing.T) {
	svc, repo, users := newService()
	users.On("Exists", mock.Anything, int64(1)).Return(false, errors.New("redis and db down"))

	_, err := svc.ListForOwner(context.Background(), &models.ListBookingsRequest{UserID: 1})
	assert.ErrorIs(t, err, ErrInternal)

	users.On("Exists", mock.Anything, int64(2)).Return(true, nil)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err = svc.ListForOwner(context.Background(), &models.ListBookingsRequest{UserID: 2})
	assert.ErrorIs(t, err, ErrInternal)
}
