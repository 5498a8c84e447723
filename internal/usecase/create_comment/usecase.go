package create_comment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	itemRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/item"
	userRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/user"
	"github.com/m04kA/SMC-ShareItService/internal/service/items/models"
)

// UseCase отзыв о вещи от пользователя, который ее арендовал
type UseCase struct {
	bookingRepo  BookingRepository
	itemRepo     ItemRepository
	commentRepo  CommentRepository
	users        UserDirectory
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	itemRepo ItemRepository,
	commentRepo CommentRepository,
	users UserDirectory,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		itemRepo:     itemRepo,
		commentRepo:  commentRepo,
		users:        users,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute сохраняет отзыв, если у автора есть завершившееся бронирование вещи.
// Статус бронирования не проверяется: отклоненное, но прошедшее бронирование тоже дает право на отзыв.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateComment: author=%d, item=%d", req.AuthorID, req.ItemID)

	if err := validateText(req.Text); err != nil {
		uc.logger.Warn("CreateComment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	var result *domain.Comment

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		author, err := uc.users.GetByID(txCtx, req.AuthorID)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				uc.logger.Warn("CreateComment: author id=%d not found", req.AuthorID)
				return domain.NotFound(domain.ReasonMissing, "User with id = %d not found", req.AuthorID)
			}
			uc.logger.Error("CreateComment: failed to get author id=%d: %v", req.AuthorID, err)
			return fmt.Errorf("%w: failed to get author: %v", ErrInternal, err)
		}

		item, err := uc.itemRepo.GetByID(txCtx, req.ItemID)
		if err != nil {
			if errors.Is(err, itemRepo.ErrItemNotFound) {
				uc.logger.Warn("CreateComment: item id=%d not found", req.ItemID)
				return domain.NotFound(domain.ReasonMissing, "Item with id = %d not found", req.ItemID)
			}
			uc.logger.Error("CreateComment: failed to get item id=%d: %v", req.ItemID, err)
			return fmt.Errorf("%w: failed to get item: %v", ErrInternal, err)
		}

		eligible, err := uc.bookingRepo.ExistsFinished(txCtx, item.ID, author.ID, now)
		if err != nil {
			uc.logger.Error("CreateComment: eligibility check failed: %v", err)
			return fmt.Errorf("%w: eligibility check: %v", ErrInternal, err)
		}
		if !eligible {
			uc.logger.Warn("CreateComment: user=%d has no finished booking of item id=%d", author.ID, item.ID)
			return domain.BadRequest("user did not book this item")
		}

		comment, err := uc.commentRepo.Create(txCtx, &domain.Comment{
			Text:     req.Text,
			ItemID:   item.ID,
			AuthorID: author.ID,
			Created:  now,
		})
		if err != nil {
			uc.logger.Error("CreateComment: failed to save comment: %v", err)
			return fmt.Errorf("%w: failed to save comment: %v", ErrInternal, err)
		}

		comment.AuthorName = author.Name
		result = comment
		return nil
	})
	if err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateComment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateComment: comment id=%d saved for item=%d", result.ID, result.ItemID)
	resp := models.FromDomainComment(result)
	return &resp, nil
}
