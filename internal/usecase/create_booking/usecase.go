package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	itemRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/item"
	userRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/user"
	"github.com/m04kA/SMC-ShareItService/internal/service/bookings/models"
)

// Metrics счетчики бизнес-событий
type Metrics interface {
	BookingCreated()
}

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	itemRepo     ItemRepository
	users        UserDirectory
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	itemRepo ItemRepository,
	users UserDirectory,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		itemRepo:     itemRepo,
		users:        users,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает бронирование в статусе WAITING.
// Пересечения с другими бронированиями вещи не проверяются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: booker=%d, item=%d, start=%s, end=%s",
		req.BookerID, req.ItemID, req.Start.Format(domain.DateTimeFormat), req.End.Format(domain.DateTimeFormat))

	// 1. Валидация интервала
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 2. Чтение вещи и запись бронирования в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		item, err := uc.itemRepo.GetByID(txCtx, req.ItemID)
		if err != nil {
			if errors.Is(err, itemRepo.ErrItemNotFound) {
				uc.logger.Warn("CreateBooking: item id=%d not found", req.ItemID)
				return domain.NotFound(domain.ReasonMissing, "Item with id = %d not found", req.ItemID)
			}
			uc.logger.Error("CreateBooking: failed to get item id=%d: %v", req.ItemID, err)
			return fmt.Errorf("%w: failed to get item: %v", ErrInternal, err)
		}

		if !item.Available {
			uc.logger.Warn("CreateBooking: item id=%d is not available", req.ItemID)
			return domain.BadRequest("item not available")
		}

		// Владелец не может арендовать свою вещь. Снаружи это "не найдено"
		if item.OwnerID == req.BookerID {
			uc.logger.Warn("CreateBooking: owner=%d tried to book own item id=%d", req.BookerID, req.ItemID)
			return domain.NotFound(domain.ReasonSelfBooking, "owner cannot book own item")
		}

		booker, err := uc.users.GetByID(txCtx, req.BookerID)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				uc.logger.Warn("CreateBooking: booker id=%d not found", req.BookerID)
				return domain.NotFound(domain.ReasonMissing, "User with id = %d not found", req.BookerID)
			}
			uc.logger.Error("CreateBooking: failed to get booker id=%d: %v", req.BookerID, err)
			return fmt.Errorf("%w: failed to get booker: %v", ErrInternal, err)
		}

		booking, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			Start:    req.Start.UTC(),
			End:      req.End.UTC(),
			ItemID:   item.ID,
			BookerID: booker.ID,
			Status:   domain.StatusWaiting,
			Version:  1,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to save booking: %v", err)
			return fmt.Errorf("%w: failed to save booking: %v", ErrInternal, err)
		}

		booking.ItemName = item.Name
		booking.OwnerID = item.OwnerID
		booking.BookerName = booker.Name
		result = booking
		return nil
	})
	if err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.metrics.BookingCreated()
	uc.logger.Info("CreateBooking: booking id=%d created for item=%d", result.ID, result.ItemID)
	return models.FromDomainBooking(result), nil
}
