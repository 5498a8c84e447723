package models

import (
	"github.com/m04kA/SMC-ShareItService/internal/domain"
)

// BookingSummary последнее или следующее бронирование вещи
type BookingSummary struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

// CommentResponse отзыв о вещи
type CommentResponse struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	AuthorName string `json:"authorName"`
	Created    string `json:"created"`
}

// ItemResponse вещь со сводкой бронирований и отзывами.
// LastBooking и NextBooking заполняются только для владельца.
type ItemResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	RequestID   *int64            `json:"requestId,omitempty"`
	LastBooking *BookingSummary   `json:"lastBooking"`
	NextBooking *BookingSummary   `json:"nextBooking"`
	Comments    []CommentResponse `json:"comments"`
}

// FromDomainItem конвертирует вещь без сводки
func FromDomainItem(item *domain.Item, comments []*domain.Comment) *ItemResponse {
	return &ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
		Comments:    FromDomainComments(comments),
	}
}

// FromDomainBookingSummary nil для отсутствующего бронирования
func FromDomainBookingSummary(b *domain.Booking) *BookingSummary {
	if b == nil {
		return nil
	}
	return &BookingSummary{ID: b.ID, BookerID: b.BookerID}
}

// FromDomainComment конвертирует отзыв
func FromDomainComment(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.Created.UTC().Format(domain.DateTimeFormat),
	}
}

// FromDomainComments конвертирует список отзывов, nil превращается в пустой список
func FromDomainComments(comments []*domain.Comment) []CommentResponse {
	resp := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, FromDomainComment(c))
	}
	return resp
}
