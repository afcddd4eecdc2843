package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// NextWeekStart возвращает понедельник следующей календарной недели относительно now.
// В понедельник возвращается понедельник через неделю.
func NextWeekStart(now time.Time) time.Time {
	today := domain.DateOnly(now)
	daysUntilMonday := (int(time.Monday) - int(today.Weekday()) + 7) % 7
	if daysUntilMonday == 0 {
		daysUntilMonday = 7
	}
	return today.AddDate(0, 0, daysUntilMonday)
}

// windowDates возвращает days последовательных дат начиная с start
func windowDates(start time.Time, days int) []time.Time {
	start = domain.DateOnly(start)
	dates := make([]time.Time, days)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}
