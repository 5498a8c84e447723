package get_owner_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShareItService/internal/api/handlers"
	"github.com/m04kA/SMC-ShareItService/internal/api/middleware"
	"github.com/m04kA/SMC-ShareItService/internal/domain"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
	msgMissingUserID = "отсутствует ID пользователя"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /bookings/owner?state=&from=&size= - бронирования вещей текущего пользователя
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/owner - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(r, userID)
	if err != nil {
		h.logger.Warn("GET /bookings/owner - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListForOwner(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBadRequest):
			h.logger.Warn("GET /bookings/owner - Rejected: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /bookings/owner - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, err.Error())

		default:
			h.logger.Error("GET /bookings/owner - Failed to get bookings: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/owner - Bookings retrieved successfully: user_id=%d, count=%d", userID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
