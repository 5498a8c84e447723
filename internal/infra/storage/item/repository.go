package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	"github.com/m04kA/SMC-ShareItService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShareItService/pkg/psqlbuilder"
)

var itemColumns = []string{"id", "name", "description", "available", "owner_id", "request_id"}

// Repository чтение каталога вещей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория вещей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает вещь по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(itemColumns...).
		From("items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	item, err := scanItem(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan item: %v", ErrScanRow, err)
	}

	return item, nil
}

// GetByOwnerID получает все вещи владельца, по возрастанию ID
func (r *Repository) GetByOwnerID(ctx context.Context, ownerID int64) ([]*domain.Item, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(itemColumns...).
		From("items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByOwnerID - scan item: %v", ErrScanRow, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerID - rows iteration: %v", ErrScanRow, err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var requestID sql.NullInt64

	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Available,
		&item.OwnerID,
		&requestID,
	); err != nil {
		return nil, err
	}

	if requestID.Valid {
		item.RequestID = &requestID.Int64
	}
	return &item, nil
}
