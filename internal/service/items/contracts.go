package items

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
)

// ItemRepository интерфейс репозитория вещей
type ItemRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	GetByOwnerID(ctx context.Context, ownerID int64) ([]*domain.Item, error)
}

// BookingRepository запросы бронирований для сводки по вещи
type BookingRepository interface {
	FindLastForItem(ctx context.Context, itemID int64, status domain.BookingStatus, now time.Time) (*domain.Booking, error)
	FindNextForItem(ctx context.Context, itemID int64, status domain.BookingStatus, now time.Time) (*domain.Booking, error)
	ListByItems(ctx context.Context, itemIDs []int64, status domain.BookingStatus) ([]*domain.Booking, error)
}

// CommentRepository интерфейс репозитория отзывов
type CommentRepository interface {
	ListByItemID(ctx context.Context, itemID int64) ([]*domain.Comment, error)
	ListByItemIDs(ctx context.Context, itemIDs []int64) ([]*domain.Comment, error)
}

// UserDirectory справочник пользователей
type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
