package items

import (
	"time"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
)

// itemSummary последнее и следующее бронирование одной вещи
type itemSummary struct {
	last *domain.Booking
	next *domain.Booking
}

// summarize раскладывает бронирования по вещам.
// Вход отсортирован по start по возрастанию: next это первое с start > now,
// last это последнее с start < now. Бронирование с start == now не попадает никуда.
func summarize(bookings []*domain.Booking, now time.Time) map[int64]itemSummary {
	summaries := make(map[int64]itemSummary)

	for _, b := range bookings {
		s := summaries[b.ItemID]
		switch {
		case b.Start.Before(now):
			s.last = b
		case b.Start.After(now) && s.next == nil:
			s.next = b
		}
		summaries[b.ItemID] = s
	}

	return summaries
}

func groupComments(comments []*domain.Comment) map[int64][]*domain.Comment {
	grouped := make(map[int64][]*domain.Comment)
	for _, c := range comments {
		grouped[c.ItemID] = append(grouped[c.ItemID], c)
	}
	return grouped
}
