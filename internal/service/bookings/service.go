package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ShareItService/internal/service/bookings/models"
)

// Service чтение бронирований: карточка и списки по ролям
type Service struct {
	bookingRepo  BookingRepository
	users        UserDirectory
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	users UserDirectory,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		users:        users,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Видеть бронирование могут только арендатор и владелец вещи, остальным отвечаем "не найдено".
func (s *Service) GetByID(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", bookingID, userID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", bookingID)
			return nil, domain.NotFound(domain.ReasonMissing, "Booking id = %d not found", bookingID)
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !booking.IsParticipant(userID) {
		s.logger.Warn("GetByID: user=%d is neither booker nor owner of booking id=%d", userID, bookingID)
		return nil, domain.NotFound(domain.ReasonForbidden, "invalid user")
	}

	return models.FromDomainBooking(booking), nil
}

// ListForBooker бронирования, сделанные пользователем
func (s *Service) ListForBooker(ctx context.Context, req *models.ListBookingsRequest) ([]models.BookingResponse, error) {
	return s.list(ctx, "ListForBooker", domain.RoleBooker, req)
}

// ListForOwner бронирования вещей, которыми владеет пользователь
func (s *Service) ListForOwner(ctx context.Context, req *models.ListBookingsRequest) ([]models.BookingResponse, error) {
	return s.list(ctx, "ListForOwner", domain.RoleOwner, req)
}

func (s *Service) list(ctx context.Context, op string, role domain.BookingRole, req *models.ListBookingsRequest) ([]models.BookingResponse, error) {
	s.logger.Info("%s: fetching bookings for user=%d, state=%q", op, req.UserID, req.State)

	// Параметры проверяются до обращения к справочнику пользователей
	state, err := parseState(req.State)
	if err != nil {
		s.logger.Warn("%s: %v", op, err)
		return nil, err
	}

	page, err := newPage(req.From, req.Size)
	if err != nil {
		s.logger.Warn("%s: invalid page for user=%d: %v", op, req.UserID, err)
		return nil, err
	}

	exists, err := s.users.Exists(ctx, req.UserID)
	if err != nil {
		s.logger.Error("%s: user lookup failed for user=%d: %v", op, req.UserID, err)
		return nil, fmt.Errorf("%w: %s - user lookup: %v", ErrInternal, op, err)
	}
	if !exists {
		s.logger.Warn("%s: user=%d not found", op, req.UserID)
		return nil, domain.NotFound(domain.ReasonMissing, "User with id = %d not found", req.UserID)
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		Role:   role,
		UserID: req.UserID,
		State:  state,
		Now:    s.timeProvider.Now(),
		Page:   page,
	})
	if err != nil {
		s.logger.Error("%s: repository error for user=%d: %v", op, req.UserID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: fetched %d bookings for user=%d", op, len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}
