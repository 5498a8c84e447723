package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ShareItService/internal/service/bookings/models"
)

// Request модель запроса на создание бронирования
type Request struct {
	BookerID int64     // ID арендатора из X-Sharer-User-Id
	ItemID   int64     // ID вещи
	Start    time.Time // Начало аренды
	End      time.Time // Конец аренды
}

// Response созданное бронирование в том же виде, что и при чтении
type Response = models.BookingResponse
