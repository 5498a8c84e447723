package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
)

// validateRequest валидирует входные данные запроса.
// Порядок важен: сначала интервал, потом положение интервала относительно now.
func validateRequest(req *Request, now time.Time) error {
	if req.ItemID <= 0 {
		return domain.BadRequest("itemId must be positive")
	}

	if req.Start.IsZero() || req.End.IsZero() {
		return domain.BadRequest("start and end are required")
	}

	if req.End.Before(req.Start) {
		return domain.BadRequest("End time is before start time")
	}

	if req.Start.Equal(req.End) {
		return domain.BadRequest("Start time equals end time")
	}

	if req.Start.Before(now) {
		return domain.BadRequest("start must not be in the past")
	}

	return nil
}
