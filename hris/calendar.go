package hris

import (
	"context"

	"github.com/cmlabs-hris/hris-client-go/calendar"
)

// CalendarSheet fetches a user's attendance records, leaves, and the
// holiday calendar, then reconciles them into a per-day status sheet.
// This is the data-flow seam between the gateway client and the pure
// reconciler: DTOs in, calendar inputs out, no display logic.
func (c *Client) CalendarSheet(ctx context.Context, userID string) (calendar.Sheet, error) {
	records, err := c.AttendanceByUser(ctx, userID)
	if err != nil {
		return calendar.Sheet{}, err
	}
	leaves, err := c.LeavesByUser(ctx, userID)
	if err != nil {
		return calendar.Sheet{}, err
	}
	holidays, err := c.Holidays(ctx)
	if err != nil {
		return calendar.Sheet{}, err
	}
	return calendar.Reconcile(
		calendarRecords(records),
		calendarLeaves(leaves),
		calendarHolidays(holidays),
	), nil
}

func calendarRecords(records []AttendanceRecord) []calendar.Record {
	out := make([]calendar.Record, len(records))
	for i, r := range records {
		out[i] = calendar.Record{
			Date:     r.Date,
			Status:   r.Status,
			CheckIn:  r.CheckIn,
			CheckOut: r.CheckOut,
		}
	}
	return out
}

func calendarLeaves(leaves []Leave) []calendar.Leave {
	out := make([]calendar.Leave, len(leaves))
	for i, l := range leaves {
		out[i] = calendar.Leave{
			Type:      l.Type,
			StartDate: l.StartDate,
			EndDate:   l.EndDate,
			Reason:    l.Reason,
			Status:    l.Status,
		}
	}
	return out
}

func calendarHolidays(holidays []Holiday) []calendar.Holiday {
	out := make([]calendar.Holiday, len(holidays))
	for i, h := range holidays {
		out[i] = calendar.Holiday{Name: h.Name, Date: h.Date}
	}
	return out
}
