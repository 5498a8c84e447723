package get_owner_items

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShareItService/internal/api/handlers"
	"github.com/m04kA/SMC-ShareItService/internal/api/middleware"
	"github.com/m04kA/SMC-ShareItService/internal/domain"
)

const msgMissingUserID = "отсутствует ID пользователя"

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

// Handle GET /items
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /items - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	items, err := h.service.ListByOwner(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /items - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, err.Error())

		default:
			h.logger.Error("GET /items - Failed to get items: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /items - Items retrieved successfully: user_id=%d, count=%d", userID, len(items))
	handlers.RespondJSON(w, http.StatusOK, items)
}
