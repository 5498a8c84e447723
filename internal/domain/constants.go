package domain

// Ограничения бизнес-валидации
const (
	MaxCommentLength = 256
)

// Форматы времени
const (
	// DateTimeFormat формат дат в API (без зоны, трактуется как UTC)
	DateTimeFormat = "2006-01-02T15:04:05"
)
