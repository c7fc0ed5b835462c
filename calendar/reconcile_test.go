package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func at(y int, m time.Month, d, hh, mm int) *time.Time {
	t := time.Date(y, m, d, hh, mm, 0, 0, time.Local)
	return &t
}

func TestReconcile_LateRecord(t *testing.T) {
	sheet := Reconcile([]Record{
		{Date: day(2024, 11, 28), Status: "late", CheckIn: at(2024, 11, 28, 9, 15)},
	}, nil, nil)

	got := sheet.StatusOf(day(2024, 11, 28), day(2024, 12, 1))
	assert.Equal(t, StatusLate, got.Status)
	require.NotNil(t, got.CheckIn)
	assert.Equal(t, *at(2024, 11, 28, 9, 15), *got.CheckIn)
}

func TestReconcile_FutureAlwaysWins(t *testing.T) {
	today := day(2024, 11, 15)

	// A record, a leave, and a holiday all sitting on a future date must
	// not leak through.
	future := day(2024, 11, 20)
	sheet := Reconcile(
		[]Record{{Date: future, Status: "present", CheckIn: at(2024, 11, 20, 9, 0)}},
		[]Leave{{Type: "casual", StartDate: future, EndDate: future, Status: "approved"}},
		[]Holiday{{Name: "Phantom", Date: future}},
	)

	assert.Equal(t, StatusFuture, sheet.StatusOf(future, today).Status)

	// Today itself is not future.
	assert.NotEqual(t, StatusFuture, sheet.StatusOf(today, today).Status)
}

func TestReconcile_LeaveCoversRange(t *testing.T) {
	today := day(2024, 12, 31)
	sheet := Reconcile(nil, []Leave{{
		Type:      "casual",
		StartDate: day(2024, 11, 4),
		EndDate:   day(2024, 11, 6),
		Reason:    "family event",
		Status:    "approved",
	}}, nil)

	for d := 4; d <= 6; d++ {
		got := sheet.StatusOf(day(2024, 11, d), today)
		assert.Equal(t, StatusLeave, got.Status, "day %d", d)
		assert.Equal(t, "family event", got.Remark)
	}
	// Day after the range falls back to the weekday default.
	assert.Equal(t, StatusAbsent, sheet.StatusOf(day(2024, 11, 7), today).Status)
}

func TestReconcile_SickLeaveLabel(t *testing.T) {
	sheet := Reconcile(nil, []Leave{{
		Type:      "sick",
		StartDate: day(2024, 11, 4),
		EndDate:   day(2024, 11, 4),
		Status:    "approved",
	}}, nil)

	got := sheet.StatusOf(day(2024, 11, 4), day(2024, 11, 10))
	assert.Equal(t, StatusSickLeave, got.Status)
}

func TestReconcile_PendingLeaveIgnored(t *testing.T) {
	sheet := Reconcile(nil, []Leave{{
		Type:      "casual",
		StartDate: day(2024, 11, 4),
		EndDate:   day(2024, 11, 4),
		Status:    "pending",
	}}, nil)

	assert.Equal(t, StatusAbsent, sheet.StatusOf(day(2024, 11, 4), day(2024, 11, 10)).Status)
}

func TestReconcile_LeaveKeepsCheckInTimes(t *testing.T) {
	// Employee checked in, then a half-day leave was approved
	// retroactively. The label changes but the timestamps survive.
	d := day(2024, 11, 5)
	sheet := Reconcile(
		[]Record{{Date: d, Status: "present", CheckIn: at(2024, 11, 5, 8, 55), CheckOut: at(2024, 11, 5, 12, 0)}},
		[]Leave{{Type: "casual", StartDate: d, EndDate: d, Reason: "half day", Status: "approved"}},
		nil,
	)

	got := sheet.StatusOf(d, day(2024, 11, 10))
	assert.Equal(t, StatusLeave, got.Status)
	require.NotNil(t, got.CheckIn)
	assert.Equal(t, *at(2024, 11, 5, 8, 55), *got.CheckIn)
	require.NotNil(t, got.CheckOut)
	assert.Equal(t, *at(2024, 11, 5, 12, 0), *got.CheckOut)
	assert.Equal(t, "half day", got.Remark)
}

func TestReconcile_HolidayPrecedence(t *testing.T) {
	christmas := day(2024, 12, 25)
	sheet := Reconcile(
		[]Record{{Date: christmas, Status: "present", CheckIn: at(2024, 12, 25, 9, 0)}},
		[]Leave{{Type: "casual", StartDate: christmas, EndDate: christmas, Reason: "pto", Status: "approved"}},
		[]Holiday{{Name: "Christmas", Date: christmas}},
	)

	got := sheet.StatusOf(christmas, day(2024, 12, 31))
	assert.Equal(t, StatusHoliday, got.Status)
	assert.Equal(t, "Christmas", got.Remark)
	// The mistaken check-in is still retrievable.
	require.NotNil(t, got.CheckIn)
	assert.Equal(t, *at(2024, 12, 25, 9, 0), *got.CheckIn)
}

func TestStatusOf_Defaults(t *testing.T) {
	sheet := Reconcile(nil, nil, nil)
	today := day(2024, 11, 15)

	sunday := day(2024, 11, 10)
	require.Equal(t, time.Sunday, sunday.Weekday())
	assert.Equal(t, StatusWeekend, sheet.StatusOf(sunday, today).Status)

	monday := day(2024, 11, 11)
	require.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, StatusAbsent, sheet.StatusOf(monday, today).Status)

	// Saturday is a regular weekday here: only Sunday defaults to Weekend.
	saturday := day(2024, 11, 9)
	require.Equal(t, time.Saturday, saturday.Weekday())
	assert.Equal(t, StatusAbsent, sheet.StatusOf(saturday, today).Status)
}

func TestReconcile_AttendanceStatusMapping(t *testing.T) {
	today := day(2024, 12, 1)
	sheet := Reconcile([]Record{
		{Date: day(2024, 11, 4), Status: "late", CheckIn: at(2024, 11, 4, 9, 30)},
		{Date: day(2024, 11, 5), Status: "absent"},
		{Date: day(2024, 11, 6), Status: "holiday"},
		{Date: day(2024, 11, 7), Status: "waiting_approval", CheckIn: at(2024, 11, 7, 8, 58)},
		{Date: day(2024, 11, 8), Status: "waiting_approval"},
	}, nil, nil)

	assert.Equal(t, StatusLate, sheet.StatusOf(day(2024, 11, 4), today).Status)
	assert.Equal(t, StatusAbsent, sheet.StatusOf(day(2024, 11, 5), today).Status)
	assert.Equal(t, StatusHoliday, sheet.StatusOf(day(2024, 11, 6), today).Status)
	// Unrecognized label with a check-in counts as present.
	assert.Equal(t, StatusPresent, sheet.StatusOf(day(2024, 11, 7), today).Status)
	// Unrecognized label without a check-in stays unknown.
	assert.Equal(t, StatusUnknown, sheet.StatusOf(day(2024, 11, 8), today).Status)
}

func TestReconcile_Idempotent(t *testing.T) {
	records := []Record{
		{Date: day(2024, 11, 4), Status: "late", CheckIn: at(2024, 11, 4, 9, 30)},
		{Date: day(2024, 11, 5), Status: "present", CheckIn: at(2024, 11, 5, 8, 45), CheckOut: at(2024, 11, 5, 17, 30)},
	}
	leaves := []Leave{{Type: "sick", StartDate: day(2024, 11, 6), EndDate: day(2024, 11, 8), Reason: "flu", Status: "approved"}}
	holidays := []Holiday{{Name: "Founders Day", Date: day(2024, 11, 7)}}

	first := Reconcile(records, leaves, holidays)
	second := Reconcile(records, leaves, holidays)

	require.Equal(t, first.Len(), second.Len())
	for _, key := range first.Keys() {
		a, _ := first.Day(key)
		b, ok := second.Day(key)
		require.True(t, ok)
		assert.Equal(t, a, b)
	}
}

func TestReconcile_LatestRecordWinsForDate(t *testing.T) {
	// Two records on the same day: the later one in the slice overwrites.
	d := day(2024, 11, 4)
	sheet := Reconcile([]Record{
		{Date: d, Status: "late", CheckIn: at(2024, 11, 4, 9, 30)},
		{Date: d, Status: "present", CheckIn: at(2024, 11, 4, 8, 50)},
	}, nil, nil)

	got := sheet.StatusOf(d, day(2024, 11, 10))
	assert.Equal(t, StatusPresent, got.Status)
	assert.Equal(t, *at(2024, 11, 4, 8, 50), *got.CheckIn)
}

func TestEachDay_DegenerateRange(t *testing.T) {
	sheet := Reconcile(nil, []Leave{{
		Type:      "casual",
		StartDate: day(2024, 11, 6),
		EndDate:   day(2024, 11, 4), // end before start
		Status:    "approved",
	}}, nil)

	assert.Equal(t, 0, sheet.Len())
}

func TestKeyOf_CalendarLocal(t *testing.T) {
	// 00:30 on Nov 5 in UTC+7 is still Nov 4 in UTC; the key must follow
	// the wall clock, not the UTC instant.
	jakarta := time.FixedZone("WIB", 7*3600)
	t0 := time.Date(2024, 11, 5, 0, 30, 0, 0, jakarta)
	assert.Equal(t, DayKey("2024-11-05"), KeyOf(t0))
}

func TestParseKey(t *testing.T) {
	key, err := ParseKey("2024-11-28")
	require.NoError(t, err)
	assert.Equal(t, DayKey("2024-11-28"), key)

	_, err = ParseKey("28-11-2024")
	assert.Error(t, err)
}
