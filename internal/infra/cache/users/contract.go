package users

import (
	"context"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
)

// UserRepository источник истины для пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
