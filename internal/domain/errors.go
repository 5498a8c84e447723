package domain

import (
	"errors"
	"fmt"
)

// Категории ошибок, которые видит клиент. Проверяются через errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)

// Reason уточняет причину ошибки для логов. Клиенту не отдается:
// "чужое бронирование" и "нет такого бронирования" снаружи выглядят одинаково.
type Reason string

const (
	ReasonMissing     Reason = "missing"
	ReasonForbidden   Reason = "forbidden"
	ReasonSelfBooking Reason = "self_booking"
	ReasonValidation  Reason = "validation"
	ReasonStale       Reason = "stale_version"
)

// Error бизнес-ошибка с категорией и сообщением для клиента
type Error struct {
	Kind    error
	Message string
	Reason  Reason
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound ошибка "не найдено" с указанием настоящей причины
func NotFound(reason Reason, format string, v ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, v...), Reason: reason}
}

// BadRequest ошибка валидации
func BadRequest(format string, v ...interface{}) *Error {
	return &Error{Kind: ErrBadRequest, Message: fmt.Sprintf(format, v...), Reason: ReasonValidation}
}

// Conflict ошибка конкурентного изменения
func Conflict(format string, v ...interface{}) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, v...), Reason: ReasonStale}
}

// ReasonOf достает причину из цепочки ошибок, пустая строка если это не *Error
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}
