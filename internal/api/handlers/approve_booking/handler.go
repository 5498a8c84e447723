package approve_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ShareItService/internal/api/handlers"
	"github.com/m04kA/SMC-ShareItService/internal/api/middleware"
	"github.com/m04kA/SMC-ShareItService/internal/domain"
	approveBooking "github.com/m04kA/SMC-ShareItService/internal/usecase/approve_booking"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgInvalidApproved  = "параметр approved должен быть true или false"
	msgMissingUserID    = "отсутствует ID пользователя"
)

type Handler struct {
	useCase ApproveBookingUseCase
	logger  Logger
}

func NewHandler(useCase ApproveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /bookings/{bookingId}?approved=true|false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid approved param: %v", err)
		handlers.RespondBadRequest(w, msgInvalidApproved)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &approveBooking.Request{
		OwnerID:   userID,
		BookingID: bookingID,
		Approved:  approved,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Not found: booking_id=%d, user_id=%d, reason=%s",
				bookingID, userID, domain.ReasonOf(err))
			handlers.RespondNotFound(w, err.Error())

		case errors.Is(err, domain.ErrBadRequest):
			h.logger.Warn("PATCH /bookings/{id} - Rejected: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("PATCH /bookings/{id} - Concurrent decision: booking_id=%d", bookingID)
			handlers.RespondConflict(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to decide: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking decided: booking_id=%d, status=%s", bookingID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
