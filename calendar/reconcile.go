// Package calendar reconciles attendance records, approved leaves, and
// holiday definitions into a per-day status map used to paint attendance
// calendars. Reconciliation is a pure reduction over its three inputs:
// there is no stored state, so a fresh pass over the same inputs always
// produces the same sheet.
package calendar

import (
	"sort"
	"time"
)

// Record is one attendance row as reported by the backend.
type Record struct {
	Date     time.Time
	Status   string // raw backend label: "present", "late", "absent", "holiday", ...
	CheckIn  *time.Time
	CheckOut *time.Time
}

// Leave is a leave request spanning StartDate to EndDate inclusive. Only
// approved leaves participate in reconciliation.
type Leave struct {
	Type      string // "sick", "casual", "vacation", "unpaid"
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	Status    string // "pending", "approved", "rejected"
}

// Holiday is a company-wide holiday.
type Holiday struct {
	Name string
	Date time.Time
}

// Day is the reconciled view of a single calendar day. Status and the raw
// check-in/out timestamps are tracked separately so a leave approved after
// a partial check-in relabels the day without losing the recorded times.
type Day struct {
	Key      DayKey
	Status   Status
	CheckIn  *time.Time
	CheckOut *time.Time
	Remark   string
}

// Stats mirrors the backend's aggregate attendance figures. The client
// passes these through untouched; recomputing them here would drift from
// the server's totals.
type Stats struct {
	PresentDays    int     `json:"present_days"`
	LateDays       int     `json:"late_days"`
	AbsentDays     int     `json:"absent_days"`
	LeaveDays      int     `json:"leave_days"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// Sheet is a date-keyed status map produced by Reconcile.
type Sheet struct {
	days map[DayKey]Day
}

// Reconcile merges the three sources into one sheet. Merge order defines
// precedence: attendance first, then approved leaves, then holidays.
// Later sources overwrite the status label for a day but never erase a
// check-in or check-out already recorded for it.
func Reconcile(records []Record, leaves []Leave, holidays []Holiday) Sheet {
	sheet := Sheet{days: make(map[DayKey]Day)}

	for _, record := range records {
		key := KeyOf(record.Date)
		sheet.days[key] = Day{
			Key:      key,
			Status:   statusOfRecord(record),
			CheckIn:  record.CheckIn,
			CheckOut: record.CheckOut,
		}
	}

	for _, leave := range leaves {
		if leave.Status != "approved" {
			continue
		}
		status := StatusLeave
		if leave.Type == "sick" {
			status = StatusSickLeave
		}
		eachDay(leave.StartDate, leave.EndDate, func(day time.Time) {
			sheet.overlay(KeyOf(day), status, leave.Reason)
		})
	}

	for _, holiday := range holidays {
		sheet.overlay(KeyOf(holiday.Date), StatusHoliday, holiday.Name)
	}

	return sheet
}

// overlay relabels a day, keeping any timestamps already present.
func (s *Sheet) overlay(key DayKey, status Status, remark string) {
	day := s.days[key]
	day.Key = key
	day.Status = status
	day.Remark = remark
	s.days[key] = day
}

// statusOfRecord maps the backend's raw status label onto a calendar
// status. Anything unrecognized that still carries a check-in counts as
// present.
func statusOfRecord(record Record) Status {
	switch record.Status {
	case "late":
		return StatusLate
	case "absent":
		return StatusAbsent
	case "holiday":
		return StatusHoliday
	default:
		if record.CheckIn != nil {
			return StatusPresent
		}
		return StatusUnknown
	}
}

// StatusOf answers the status for one day. Dates strictly after today are
// always Future: no record is trusted for a day that has not happened.
// For past days with no entry, Sundays default to Weekend and weekdays to
// Absent.
func (s Sheet) StatusOf(date, today time.Time) Day {
	key := KeyOf(date)
	if date.After(today) && key != KeyOf(today) {
		return Day{Key: key, Status: StatusFuture}
	}
	if day, ok := s.days[key]; ok {
		return day
	}
	if date.Weekday() == time.Sunday {
		return Day{Key: key, Status: StatusWeekend}
	}
	return Day{Key: key, Status: StatusAbsent}
}

// Day looks up the raw reconciled entry without the future/default
// policy applied. The second result reports whether any source touched
// the day.
func (s Sheet) Day(key DayKey) (Day, bool) {
	day, ok := s.days[key]
	return day, ok
}

// Len returns the number of days touched by at least one source.
func (s Sheet) Len() int {
	return len(s.days)
}

// Keys returns the touched day keys in ascending order.
func (s Sheet) Keys() []DayKey {
	keys := make([]DayKey, 0, len(s.days))
	for key := range s.days {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
