package get_owner_items

import (
	"context"

	"github.com/m04kA/SMC-ShareItService/internal/service/items/models"
)

type ItemService interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]models.ItemResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
