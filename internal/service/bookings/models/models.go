package models

import (
	"github.com/m04kA/SMC-ShareItService/internal/domain"
)

// Request модели

// ListBookingsRequest запрос списка бронирований арендатора или владельца
type ListBookingsRequest struct {
	UserID int64
	State  string // Пустая строка трактуется как ALL
	From   *int
	Size   *int
}

// Response модели

// ItemShort вещь в составе бронирования
type ItemShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookerShort арендатор в составе бронирования
type BookerShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID     int64       `json:"id"`
	Start  string      `json:"start"` // "2026-10-20T12:00:00"
	End    string      `json:"end"`
	Status string      `json:"status"`
	Item   ItemShort   `json:"item"`
	Booker BookerShort `json:"booker"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:     b.ID,
		Start:  b.Start.UTC().Format(domain.DateTimeFormat),
		End:    b.End.UTC().Format(domain.DateTimeFormat),
		Status: string(b.Status),
		Item: ItemShort{
			ID:   b.ItemID,
			Name: b.ItemName,
		},
		Booker: BookerShort{
			ID:   b.BookerID,
			Name: b.BookerName,
		},
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO, nil превращается в пустой список
func FromDomainBookingList(bookings []*domain.Booking) []BookingResponse {
	resp := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp = append(resp, *bookingResp)
		}
	}
	return resp
}
