package create_comment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShareItService/internal/api/handlers"
	"github.com/m04kA/SMC-ShareItService/internal/api/middleware"
	"github.com/m04kA/SMC-ShareItService/internal/domain"
	createComment "github.com/m04kA/SMC-ShareItService/internal/usecase/create_comment"
)

const (
	msgInvalidItemID      = "некорректный ID вещи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase CreateCommentUseCase
	logger  Logger
}

func NewHandler(useCase CreateCommentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /items/{itemId}/comment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathID(r, "itemId")
	if err != nil {
		h.logger.Warn("POST /items/{id}/comment - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /items/{id}/comment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateCommentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /items/{id}/comment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createComment.Request{
		AuthorID: userID,
		ItemID:   itemID,
		Text:     req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBadRequest):
			h.logger.Warn("POST /items/{id}/comment - Rejected: item_id=%d, user_id=%d, error=%v", itemID, userID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /items/{id}/comment - Not found: item_id=%d, user_id=%d, error=%v", itemID, userID, err)
			handlers.RespondNotFound(w, err.Error())

		default:
			h.logger.Error("POST /items/{id}/comment - Failed to create comment: item_id=%d, error=%v", itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /items/{id}/comment - Comment created: comment_id=%d, item_id=%d", result.ID, itemID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
