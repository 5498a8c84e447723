package approve_booking

import "github.com/m04kA/SMC-ShareItService/internal/service/bookings/models"

// Request решение владельца по бронированию
type Request struct {
	OwnerID   int64
	BookingID int64
	Approved  bool
}

// Response бронирование после решения
type Response = models.BookingResponse
