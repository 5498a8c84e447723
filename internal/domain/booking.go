package domain

import "time"

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	// StatusCanceled присутствует в модели, но ни одна операция его не выставляет
	StatusCanceled BookingStatus = "CANCELED"
)

// Booking бронирование вещи пользователем на интервал [Start, End)
type Booking struct {
	ID       int64
	Start    time.Time
	End      time.Time
	ItemID   int64
	BookerID int64
	Status   BookingStatus
	Version  int64 // Счетчик для условного обновления статуса

	// Денормализованные данные (подтягиваются JOIN-ом)
	ItemName   string
	OwnerID    int64
	BookerName string
}

// IsWaiting true, пока владелец не принял решение
func (b *Booking) IsWaiting() bool {
	return b.Status == StatusWaiting
}

// IsOwner true, если userID владелец забронированной вещи
func (b *Booking) IsOwner(userID int64) bool {
	return b.OwnerID == userID
}

// IsParticipant true для арендатора и владельца вещи
func (b *Booking) IsParticipant(userID int64) bool {
	return b.BookerID == userID || b.OwnerID == userID
}

// DecisionStatus статус, в который переходит бронирование после решения владельца
func DecisionStatus(approved bool) BookingStatus {
	if approved {
		return StatusApproved
	}
	return StatusRejected
}

// IsValid проверяет, что статус входит в закрытый список
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}
