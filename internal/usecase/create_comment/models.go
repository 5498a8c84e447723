package create_comment

import "github.com/m04kA/SMC-ShareItService/internal/service/items/models"

// Request отзыв пользователя о вещи
type Request struct {
	AuthorID int64
	ItemID   int64
	Text     string
}

// Response сохраненный отзыв
type Response = models.CommentResponse
