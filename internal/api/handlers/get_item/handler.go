package get_item

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShareItService/internal/api/handlers"
	"github.com/m04kA/SMC-ShareItService/internal/api/middleware"
	"github.com/m04kA/SMC-ShareItService/internal/domain"
)

const (
	msgInvalidItemID = "некорректный ID вещи"
	msgMissingUserID = "отсутствует ID пользователя"
)

type Handler struct {
	service ItemService
	logger  Logger
}

func NewHandler(service ItemService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /items/{itemId}
// lastBooking/nextBooking заполняются только для владельца
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathID(r, "itemId")
	if err != nil {
		h.logger.Warn("GET /items/{id} - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /items/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	item, err := h.service.GetByID(r.Context(), itemID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /items/{id} - Not found: item_id=%d, user_id=%d, error=%v", itemID, userID, err)
			handlers.RespondNotFound(w, err.Error())

		default:
			h.logger.Error("GET /items/{id} - Failed to get item: item_id=%d, error=%v", itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /items/{id} - Item retrieved successfully: item_id=%d, user_id=%d", itemID, userID)
	handlers.RespondJSON(w, http.StatusOK, item)
}
