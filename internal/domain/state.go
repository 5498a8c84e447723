package domain

import "time"

// BookingState фильтр списка бронирований относительно текущего момента или статуса
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// States все допустимые токены (регистр важен)
var States = []BookingState{
	StateAll,
	StateCurrent,
	StatePast,
	StateFuture,
	StateWaiting,
	StateRejected,
}

// ParseBookingState возвращает состояние по токену, ok=false для неизвестного токена
func ParseBookingState(token string) (BookingState, bool) {
	for _, s := range States {
		if string(s) == token {
			return s, true
		}
	}
	return "", false
}

// Page окно выборки. Limit == 0 означает "без ограничения"
type Page struct {
	Offset uint64
	Limit  uint64
}

// IsUnbounded true, если пагинация не задана
func (p Page) IsUnbounded() bool {
	return p.Limit == 0
}

// BookingRole чьи бронирования выбираем
type BookingRole int

const (
	RoleBooker BookingRole = iota
	RoleOwner
)

// BookingsFilter параметры выборки списка бронирований
type BookingsFilter struct {
	Role   BookingRole
	UserID int64 // ID арендатора или владельца, в зависимости от Role
	State  BookingState
	Now    time.Time
	Page   Page
}
