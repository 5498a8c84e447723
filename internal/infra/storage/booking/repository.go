package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
	"github.com/m04kA/SMC-ShareItService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShareItService/pkg/psqlbuilder"
)

// Колонки бронирования вместе с названием вещи, владельцем и именем арендатора
var bookingColumns = []string{
	"b.id",
	"b.start_date",
	"b.end_date",
	"b.item_id",
	"b.booker_id",
	"b.status",
	"b.version",
	"i.name",
	"i.owner_id",
	"u.name",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Join("items i ON i.id = b.item_id").
		Join("users u ON u.id = b.booker_id")
}

// Create сохраняет новое бронирование и заполняет ID.
// Время хранится в UTC, колонки без зоны.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.Version == 0 {
		booking.Version = 1
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("start_date", "end_date", "item_id", "booker_id", "status", "version").
		Values(
			booking.Start.UTC(),
			booking.End.UTC(),
			booking.ItemID,
			booking.BookerID,
			booking.Status,
			booking.Version,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List возвращает бронирования арендатора или владельца вещей с фильтром по состоянию.
//
// Состояния:
//   - ALL: без условий
//   - CURRENT: start < now < end (единственное состояние с сортировкой по возрастанию start)
//   - PAST: end < now
//   - FUTURE: start > now
//   - WAITING, REJECTED: по статусу
//
// Page с нулевым Limit означает выборку без ограничений.
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectBookings()

	switch filter.Role {
	case domain.RoleOwner:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"i.owner_id": filter.UserID})
	default:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.booker_id": filter.UserID})
	}

	now := filter.Now.UTC()
	order := "b.start_date DESC"

	switch filter.State {
	case domain.StateAll:
	case domain.StateCurrent:
		selectBuilder = selectBuilder.Where(squirrel.And{
			squirrel.Lt{"b.start_date": now},
			squirrel.Gt{"b.end_date": now},
		})
		order = "b.start_date ASC"
	case domain.StatePast:
		selectBuilder = selectBuilder.Where(squirrel.Lt{"b.end_date": now})
	case domain.StateFuture:
		selectBuilder = selectBuilder.Where(squirrel.Gt{"b.start_date": now})
	case domain.StateWaiting:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": domain.StatusWaiting})
	case domain.StateRejected:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": domain.StatusRejected})
	default:
		return nil, fmt.Errorf("%w: List - state %q", ErrInvalidState, filter.State)
	}

	// id как вторичный ключ, чтобы страницы были стабильны при равных start
	selectBuilder = selectBuilder.OrderBy(order, "b.id ASC")

	if !filter.Page.IsUnbounded() {
		selectBuilder = selectBuilder.Limit(filter.Page.Limit).Offset(filter.Page.Offset)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus переводит бронирование из WAITING в новый статус, если версия не изменилась.
// При успехе версия увеличивается на единицу и записывается в booking.
// Если строка не обновлена (другой запрос успел раньше), возвращает ErrVersionConflict.
func (r *Repository) UpdateStatus(ctx context.Context, booking *domain.Booking, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{
			"id":      booking.ID,
			"version": booking.Version,
			"status":  domain.StatusWaiting,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrVersionConflict
	}

	booking.Status = status
	booking.Version++
	return nil
}

// FindLastForItem последнее бронирование вещи с заданным статусом, начавшееся до now
func (r *Repository) FindLastForItem(ctx context.Context, itemID int64, status domain.BookingStatus, now time.Time) (*domain.Booking, error) {
	return r.findOneForItem(ctx, "FindLastForItem", selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID, "b.status": status}).
		Where(squirrel.Lt{"b.start_date": now.UTC()}).
		OrderBy("b.start_date DESC"))
}

// FindNextForItem ближайшее бронирование вещи с заданным статусом, начинающееся после now
func (r *Repository) FindNextForItem(ctx context.Context, itemID int64, status domain.BookingStatus, now time.Time) (*domain.Booking, error) {
	return r.findOneForItem(ctx, "FindNextForItem", selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID, "b.status": status}).
		Where(squirrel.Gt{"b.start_date": now.UTC()}).
		OrderBy("b.start_date ASC"))
}

// findOneForItem возвращает первую строку выборки или nil, nil если строк нет
func (r *Repository) findOneForItem(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

// ListByItems возвращает бронирования набора вещей с заданным статусом, по возрастанию start
func (r *Repository) ListByItems(ctx context.Context, itemIDs []int64, status domain.BookingStatus) ([]*domain.Booking, error) {
	if len(itemIDs) == 0 {
		return []*domain.Booking{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.item_id": itemIDs, "b.status": status}).
		OrderBy("b.start_date ASC", "b.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ExistsFinished проверяет, есть ли у пользователя завершившееся до now бронирование вещи.
// Статус бронирования не учитывается.
func (r *Repository) ExistsFinished(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"item_id": itemID, "booker_id": bookerID}).
		Where(squirrel.Lt{"end_date": now.UTC()}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsFinished - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsFinished - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	err := row.Scan(
		&booking.ID,
		&booking.Start,
		&booking.End,
		&booking.ItemID,
		&booking.BookerID,
		&booking.Status,
		&booking.Version,
		&booking.ItemName,
		&booking.OwnerID,
		&booking.BookerName,
	)
	if err != nil {
		return nil, err
	}
	if !booking.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, booking.Status)
	}

	booking.Start = booking.Start.UTC()
	booking.End = booking.End.UTC()
	return &booking, nil
}

// scanBookings сканирует все строки результата
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows iteration: %v", ErrScanRow, err)
	}

	return bookings, nil
}
