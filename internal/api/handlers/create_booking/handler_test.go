package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShareItService/internal/api/handlers"
	"github.com/m04kA/SMC-ShareItService/internal/api/middleware"
	"github.com/m04kA/SMC-ShareItService/internal/domain"
	"github.com/m04kA/SMC-ShareItService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-ShareItService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ShareItService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createBooking.Response), args.Error(1)
}

func newRequest(t *testing.T, body string, userID int64) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

func TestHandler_Created(t *testing.T) {
	uc := new(mockUseCase)
	expected := &createBooking.Request{
		BookerID: 2,
		ItemID:   1,
		Start:    time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 10, 21, 12, 0, 0, 0, time.UTC),
	}
	uc.On("Execute", mock.Anything, expected).Return(&models.BookingResponse{
		ID:     10,
		Start:  "2026-10-20T12:00:00",
		End:    "2026-10-21T12:00:00",
		Status: string(domain.StatusWaiting),
		Item:   models.ItemShort{ID: 1, Name: "Дрель"},
		Booker: models.BookerShort{ID: 2, Name: "booker"},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, newRequest(t,
		`{"itemId":1,"start":"2026-10-20T12:00:00","end":"2026-10-21T12:00:00"}`, 2))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "WAITING", resp.Status)
	assert.Equal(t, "Дрель", resp.Item.Name)
	uc.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	validBody := `{"itemId":1,"start":"2026-10-20T12:00:00","end":"2026-10-21T12:00:00"}`

	tests := []struct {
		name       string
		body       string
		userID     int64
		ucErr      error
		wantStatus int
		wantError  string
	}{
		{name: "missing user", body: validBody, wantStatus: http.StatusUnauthorized, wantError: msgMissingUserID},
		{name: "malformed json", body: `{"itemId":`, userID: 2, wantStatus: http.StatusBadRequest, wantError: msgInvalidRequestBody},
		{name: "unknown field", body: `{"itemId":1,"foo":1}`, userID: 2, wantStatus: http.StatusBadRequest, wantError: msgInvalidRequestBody},
		{name: "bad date", body: `{"itemId":1,"start":"20.10.2026","end":"2026-10-21T12:00:00"}`, userID: 2,
			wantStatus: http.StatusBadRequest, wantError: msgInvalidDateTime},
		{name: "unavailable item", body: validBody, userID: 2, ucErr: domain.BadRequest("item not available"),
			wantStatus: http.StatusBadRequest, wantError: "item not available"},
		{name: "self booking", body: validBody, userID: 2,
			ucErr:      domain.NotFound(domain.ReasonSelfBooking, "owner cannot book own item"),
			wantStatus: http.StatusNotFound, wantError: "owner cannot book own item"},
		{name: "storage failure", body: validBody, userID: 2, ucErr: errors.New("db down"),
			wantStatus: http.StatusInternalServerError, wantError: "внутренняя ошибка сервера"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.Nop()).Handle(rec, newRequest(t, tt.body, tt.userID))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantError, resp.Error)
			if tt.ucErr == nil {
				uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
			}
		})
	}
}
