package reminder

import (
	"fmt"
	"time"
)

const (
	defaultTimeOfDay  = "09:00:00"
	defaultDayOfWeek  = 1 // Monday
	defaultDayOfMonth = 1
)

// NextSendAt computes the schedule's next fire time after now. It is a pure
// function of the schedule's frequency fields and the given instant, so a
// schedule's next_send_at can always be recomputed deterministically.
func NextSendAt(s *ReportSchedule, now time.Time) time.Time {
	hour, minute, sec := parseTimeOfDay(s.TimeOfDay)
	base := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, sec, 0, now.Location())

	switch s.Frequency {
	case Weekly:
		return base.AddDate(0, 0, daysUntilWeekday(base, targetWeekday(s)))
	case Biweekly:
		return base.AddDate(0, 0, daysUntilWeekday(base, targetWeekday(s))+7)
	case Monthly:
		// Advance from the first of the month so a late-month fire date can
		// never normalize past February and skip it entirely.
		next := time.Date(base.Year(), base.Month()+1, 1, 0, 0, 0, 0, now.Location())
		day := defaultDayOfMonth
		if s.DayOfMonth != nil {
			day = *s.DayOfMonth
		}
		if max := daysInMonth(next.Year(), next.Month()); day > max {
			day = max
		}
		return time.Date(next.Year(), next.Month(), day, hour, minute, sec, 0, now.Location())
	default: // daily
		return base.AddDate(0, 0, 1)
	}
}

func targetWeekday(s *ReportSchedule) time.Weekday {
	if s.DayOfWeek == nil {
		return time.Weekday(defaultDayOfWeek)
	}
	return time.Weekday(*s.DayOfWeek % 7)
}

// daysUntilWeekday returns the strictly positive day count until the next
// occurrence of target; landing on today's weekday pushes a full week out so
// a schedule never fires twice on the same day.
func daysUntilWeekday(from time.Time, target time.Weekday) int {
	delta := (int(target) - int(from.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return delta
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func parseTimeOfDay(s string) (int, int, int) {
	if s == "" {
		s = defaultTimeOfDay
	}
	var hour, minute, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &hour, &minute, &sec); err != nil {
		return 9, 0, 0
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || sec < 0 || sec > 59 {
		return 9, 0, 0
	}
	return hour, minute, sec
}
