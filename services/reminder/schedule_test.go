package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNextSendAtDaily(t *testing.T) {
	s := &ReportSchedule{Frequency: Daily, TimeOfDay: "09:00:00"}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	next := NextSendAt(s, now)
	require.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), next)
}

func TestNextSendAtWeeklyStrictlyFuture(t *testing.T) {
	// 2026-03-01 is a Sunday; the next Monday is the following day.
	s := &ReportSchedule{Frequency: Weekly, DayOfWeek: ptr(1), TimeOfDay: "09:00:00"}
	sunday := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	next := NextSendAt(s, sunday)
	require.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), next)
	require.Equal(t, time.Monday, next.Weekday())

	// Computing on the target weekday itself lands a full week out, never today.
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	next = NextSendAt(s, monday)
	require.Equal(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), next)
}

func TestNextSendAtBiweekly(t *testing.T) {
	s := &ReportSchedule{Frequency: Biweekly, DayOfWeek: ptr(1), TimeOfDay: "09:00:00"}
	sunday := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	next := NextSendAt(s, sunday)
	require.Equal(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), next)
}

func TestNextSendAtMonthlyClampsShortMonths(t *testing.T) {
	s := &ReportSchedule{Frequency: Monthly, DayOfMonth: ptr(31), TimeOfDay: "09:00:00"}
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	// 2026 is not a leap year, so day 31 clamps to February 28.
	next := NextSendAt(s, now)
	require.Equal(t, time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC), next)
}

func TestNextSendAtMonthlyFromLateMonth(t *testing.T) {
	s := &ReportSchedule{Frequency: Monthly, DayOfMonth: ptr(31), TimeOfDay: "09:00:00"}

	// Firing on January 31 must land in February, not normalize past it.
	next := NextSendAt(s, time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC))
	require.Equal(t, time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC), next)

	// Same from the 29th and 30th.
	next = NextSendAt(s, time.Date(2026, 1, 29, 10, 0, 0, 0, time.UTC))
	require.Equal(t, time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC), next)

	// Leap year keeps the 29th.
	next = NextSendAt(s, time.Date(2028, 1, 31, 10, 0, 0, 0, time.UTC))
	require.Equal(t, time.Date(2028, 2, 29, 9, 0, 0, 0, time.UTC), next)

	// December rolls into January of the next year.
	next = NextSendAt(s, time.Date(2026, 12, 31, 10, 0, 0, 0, time.UTC))
	require.Equal(t, time.Date(2027, 1, 31, 9, 0, 0, 0, time.UTC), next)
}

func TestNextSendAtDefaults(t *testing.T) {
	// Missing day-of-week defaults to Monday, missing time to 09:00:00.
	s := &ReportSchedule{Frequency: Weekly}
	sunday := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	next := NextSendAt(s, sunday)
	require.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), next)

	// Garbage time-of-day falls back rather than erroring.
	s = &ReportSchedule{Frequency: Daily, TimeOfDay: "not-a-time"}
	next = NextSendAt(s, sunday)
	require.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), next)
}

func TestTargetLevel(t *testing.T) {
	ladder := DefaultEscalationLadder()

	cases := []struct {
		daysOverdue int
		level       int
		action      string
	}{
		{0, 0, ""},
		{1, 1, "first_reminder"},
		{2, 1, "first_reminder"},
		{3, 2, "second_reminder"},
		{6, 2, "second_reminder"},
		{7, 3, "escalation_manager"},
		{14, 4, "escalation_admin"},
		{60, 4, "escalation_admin"},
	}

	for _, tc := range cases {
		level, action := TargetLevel(ladder, tc.daysOverdue)
		require.Equal(t, tc.level, level, "days overdue %d", tc.daysOverdue)
		require.Equal(t, tc.action, action, "days overdue %d", tc.daysOverdue)
	}
}

func TestUrgencyMarker(t *testing.T) {
	require.Equal(t, "【リマインダー】", urgencyMarker(3))
	require.Equal(t, "【至急】", urgencyMarker(7))
	require.Equal(t, "【至急】", urgencyMarker(30))
}
