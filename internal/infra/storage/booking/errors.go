package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrVersionConflict возвращается, когда условное обновление не затронуло ни одной строки:
	// бронирование уже изменено другим запросом или вышло из статуса WAITING
	ErrVersionConflict = errors.New("booking.repository: booking version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrInvalidStatus возвращается, когда в строке хранится статус вне закрытого списка
	ErrInvalidStatus = errors.New("booking.repository: invalid booking status")

	// ErrInvalidState возвращается для фильтра с неизвестным состоянием
	ErrInvalidState = errors.New("booking.repository: invalid booking state")
)
