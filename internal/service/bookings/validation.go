package bookings

import (
	"github.com/m04kA/SMC-ShareItService/internal/domain"
)

// parseState разбирает токен состояния. Пустой токен означает ALL
func parseState(token string) (domain.BookingState, error) {
	if token == "" {
		return domain.StateAll, nil
	}

	state, ok := domain.ParseBookingState(token)
	if !ok {
		return "", domain.BadRequest("Unknown state: %s", token)
	}
	return state, nil
}

// newPage строит окно выборки из from/size.
// Каждый переданный параметр проверяется отдельно, но окно строится только когда переданы оба,
// иначе выборка не ограничена. Смещение выравнивается на границу страницы:
// from=7, size=5 дает вторую страницу (offset 5), а не смещение 7.
func newPage(from, size *int) (domain.Page, error) {
	if size != nil && *size < 1 {
		return domain.Page{}, domain.BadRequest("size must be greater than 0")
	}
	if from != nil && *from < 0 {
		return domain.Page{}, domain.BadRequest("from must not be negative")
	}

	if from == nil || size == nil {
		return domain.Page{}, nil
	}

	pageIndex := *from / *size
	return domain.Page{
		Offset: uint64(pageIndex * *size),
		Limit:  uint64(*size),
	}, nil
}
