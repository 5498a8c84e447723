package comment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	"github.com/m04kA/SMC-ShareItService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShareItService/pkg/psqlbuilder"
)

// Repository репозиторий отзывов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория отзывов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет отзыв и заполняет ID
func (r *Repository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("comments").
		Columns("text", "item_id", "author_id", "created").
		Values(comment.Text, comment.ItemID, comment.AuthorID, comment.Created.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err = executor.QueryRowContext(ctx, query, args...).Scan(&comment.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return comment, nil
}

// ListByItemIDs возвращает отзывы набора вещей вместе с именами авторов, по возрастанию created
func (r *Repository) ListByItemIDs(ctx context.Context, itemIDs []int64) ([]*domain.Comment, error) {
	if len(itemIDs) == 0 {
		return []*domain.Comment{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("c.id", "c.text", "c.item_id", "c.author_id", "u.name", "c.created").
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.item_id": itemIDs}).
		OrderBy("c.created ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByItemIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByItemIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// ListByItemID отзывы одной вещи
func (r *Repository) ListByItemID(ctx context.Context, itemID int64) ([]*domain.Comment, error) {
	return r.ListByItemIDs(ctx, []int64{itemID})
}

func scanComments(rows *sql.Rows) ([]*domain.Comment, error) {
	comments := make([]*domain.Comment, 0)

	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Created); err != nil {
			return nil, fmt.Errorf("%w: scanComments - scan comment: %v", ErrScanRow, err)
		}
		c.Created = c.Created.UTC()
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanComments - rows iteration: %v", ErrScanRow, err)
	}

	return comments, nil
}
