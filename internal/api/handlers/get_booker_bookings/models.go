package get_booker_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-ShareItService/internal/api/handlers"
	"github.com/m04kA/SMC-ShareItService/internal/domain"
	"github.com/m04kA/SMC-ShareItService/internal/service/bookings/models"
)

// ToServiceRequest собирает запрос из query: state (по умолчанию ALL), from, size
func ToServiceRequest(r *http.Request, userID int64) (*models.ListBookingsRequest, error) {
	from, err := handlers.OptionalInt(r, "from")
	if err != nil {
		return nil, err
	}

	size, err := handlers.OptionalInt(r, "size")
	if err != nil {
		return nil, err
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		state = string(domain.StateAll)
	}

	return &models.ListBookingsRequest{
		UserID: userID,
		State:  state,
		From:   from,
		Size:   size,
	}, nil
}
