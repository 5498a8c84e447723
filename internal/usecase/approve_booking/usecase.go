package approve_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ShareItService/internal/service/bookings/models"
)

// UseCase решение владельца: подтвердить или отклонить бронирование
type UseCase struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute переводит бронирование из WAITING в APPROVED или REJECTED.
// Запись условная (по версии и статусу): если между чтением и записью бронирование
// изменил другой запрос, возвращается Conflict и решение не применяется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApproveBooking: owner=%d, booking=%d, approved=%t", req.OwnerID, req.BookingID, req.Approved)

	var result *domain.Booking

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("ApproveBooking: booking id=%d not found", req.BookingID)
				return domain.NotFound(domain.ReasonMissing, "Booking id = %d not found", req.BookingID)
			}
			uc.logger.Error("ApproveBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if !booking.IsOwner(req.OwnerID) {
			uc.logger.Warn("ApproveBooking: user=%d is not owner of booking id=%d", req.OwnerID, req.BookingID)
			return domain.NotFound(domain.ReasonForbidden, "invalid owner")
		}

		if !booking.IsWaiting() {
			uc.logger.Warn("ApproveBooking: booking id=%d already in status %s", req.BookingID, booking.Status)
			return domain.BadRequest("status already changed")
		}

		status := domain.DecisionStatus(req.Approved)
		if err := uc.bookingRepo.UpdateStatus(txCtx, booking, status); err != nil {
			if errors.Is(err, bookingRepo.ErrVersionConflict) {
				uc.logger.Warn("ApproveBooking: booking id=%d version=%d changed concurrently", req.BookingID, booking.Version)
				uc.metrics.BookingConflict()
				return domain.Conflict("booking was modified concurrently")
			}
			uc.logger.Error("ApproveBooking: failed to update booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})
	if err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("ApproveBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.metrics.BookingDecided(strings.ToLower(string(result.Status)))
	uc.logger.Info("ApproveBooking: booking id=%d is now %s", result.ID, result.Status)
	return models.FromDomainBooking(result), nil
}
