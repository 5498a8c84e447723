package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	itemRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/item"
	"github.com/m04kA/SMC-ShareItService/internal/service/items/models"
)

// Service карточка вещи и список вещей владельца со сводкой бронирований
type Service struct {
	itemRepo     ItemRepository
	bookingRepo  BookingRepository
	commentRepo  CommentRepository
	users        UserDirectory
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса вещей
func NewService(
	itemRepo ItemRepository,
	bookingRepo BookingRepository,
	commentRepo CommentRepository,
	users UserDirectory,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		itemRepo:     itemRepo,
		bookingRepo:  bookingRepo,
		commentRepo:  commentRepo,
		users:        users,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID карточка вещи. Последнее и следующее подтвержденное бронирование видит только владелец.
func (s *Service) GetByID(ctx context.Context, itemID int64, userID int64) (*models.ItemResponse, error) {
	s.logger.Info("GetByID: fetching item id=%d for user=%d", itemID, userID)

	if err := s.ensureUser(ctx, "GetByID", userID); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, itemRepo.ErrItemNotFound) {
			s.logger.Warn("GetByID: item id=%d not found", itemID)
			return nil, domain.NotFound(domain.ReasonMissing, "Item with id = %d not found", itemID)
		}
		s.logger.Error("GetByID: repository error for item id=%d: %v", itemID, err)
		return nil, fmt.Errorf("%w: GetByID - item repository: %v", ErrInternal, err)
	}

	comments, err := s.commentRepo.ListByItemID(ctx, itemID)
	if err != nil {
		s.logger.Error("GetByID: comments error for item id=%d: %v", itemID, err)
		return nil, fmt.Errorf("%w: GetByID - comment repository: %v", ErrInternal, err)
	}

	resp := models.FromDomainItem(item, comments)
	if item.OwnerID != userID {
		return resp, nil
	}

	now := s.timeProvider.Now()

	last, err := s.bookingRepo.FindLastForItem(ctx, itemID, domain.StatusApproved, now)
	if err != nil {
		s.logger.Error("GetByID: last booking error for item id=%d: %v", itemID, err)
		return nil, fmt.Errorf("%w: GetByID - last booking: %v", ErrInternal, err)
	}

	next, err := s.bookingRepo.FindNextForItem(ctx, itemID, domain.StatusApproved, now)
	if err != nil {
		s.logger.Error("GetByID: next booking error for item id=%d: %v", itemID, err)
		return nil, fmt.Errorf("%w: GetByID - next booking: %v", ErrInternal, err)
	}

	resp.LastBooking = models.FromDomainBookingSummary(last)
	resp.NextBooking = models.FromDomainBookingSummary(next)
	return resp, nil
}

// ListByOwner все вещи владельца. Бронирования и отзывы подтягиваются одним запросом на весь набор.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]models.ItemResponse, error) {
	s.logger.Info("ListByOwner: fetching items for owner=%d", ownerID)

	if err := s.ensureUser(ctx, "ListByOwner", ownerID); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		s.logger.Error("ListByOwner: item repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: ListByOwner - item repository: %v", ErrInternal, err)
	}

	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	bookings, err := s.bookingRepo.ListByItems(ctx, itemIDs, domain.StatusApproved)
	if err != nil {
		s.logger.Error("ListByOwner: booking repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: ListByOwner - booking repository: %v", ErrInternal, err)
	}

	comments, err := s.commentRepo.ListByItemIDs(ctx, itemIDs)
	if err != nil {
		s.logger.Error("ListByOwner: comment repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: ListByOwner - comment repository: %v", ErrInternal, err)
	}

	summaries := summarize(bookings, s.timeProvider.Now())
	commentsByItem := groupComments(comments)

	resp := make([]models.ItemResponse, 0, len(items))
	for _, item := range items {
		itemResp := models.FromDomainItem(item, commentsByItem[item.ID])
		summary := summaries[item.ID]
		itemResp.LastBooking = models.FromDomainBookingSummary(summary.last)
		itemResp.NextBooking = models.FromDomainBookingSummary(summary.next)
		resp = append(resp, *itemResp)
	}

	s.logger.Info("ListByOwner: fetched %d items for owner=%d", len(resp), ownerID)
	return resp, nil
}

func (s *Service) ensureUser(ctx context.Context, op string, userID int64) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		s.logger.Error("%s: user lookup failed for user=%d: %v", op, userID, err)
		return fmt.Errorf("%w: %s - user lookup: %v", ErrInternal, op, err)
	}
	if !exists {
		s.logger.Warn("%s: user=%d not found", op, userID)
		return domain.NotFound(domain.ReasonMissing, "User with id = %d not found", userID)
	}
	return nil
}
