package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	createBooking "github.com/m04kA/SMC-ShareItService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ItemID int64  `json:"itemId"`
	Start  string `json:"start"` // "2026-10-20T12:00:00"
	End    string `json:"end"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case. Время трактуется как UTC
func (r *CreateBookingRequest) ToUseCaseRequest(bookerID int64) (*createBooking.Request, error) {
	start, err := time.ParseInLocation(domain.DateTimeFormat, r.Start, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	end, err := time.ParseInLocation(domain.DateTimeFormat, r.End, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	return &createBooking.Request{
		BookerID: bookerID,
		ItemID:   r.ItemID,
		Start:    start,
		End:      end,
	}, nil
}
