package hris

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Attendance groups the attendance endpoints.
//
// CheckIn submits the device's coordinates; the geofence decision itself
// is the backend's (the client only reports where the device is).

// AttendanceByUser lists every attendance record for a user.
func (c *Client) AttendanceByUser(ctx context.Context, userID string) ([]AttendanceRecord, error) {
	var wire []wireAttendance
	path := "/api/v1/attendance/" + url.PathEscape(userID)
	if err := c.get(ctx, path, &wire, callOptions{fallback: "could not load attendance records"}); err != nil {
		return nil, err
	}
	return normalizeAttendance(wire), nil
}

// AttendanceOn fetches a user's record for one calendar day, if any.
func (c *Client) AttendanceOn(ctx context.Context, userID string, date time.Time) (*AttendanceRecord, error) {
	var wire []wireAttendance
	path := fmt.Sprintf("/api/v1/attendance?userId=%s&date=%s",
		url.QueryEscape(userID), date.Format("2006-01-02"))
	if err := c.get(ctx, path, &wire, callOptions{fallback: "could not load attendance"}); err != nil {
		return nil, err
	}
	if len(wire) == 0 {
		return nil, nil
	}
	record := wire[0].normalize()
	return &record, nil
}

// CheckIn clocks the user in at the given coordinates.
func (c *Client) CheckIn(ctx context.Context, userID string, lat, lng float64) (*AttendanceRecord, error) {
	var wire wireAttendance
	path := fmt.Sprintf("/api/v1/attendance/login/%s?lat=%v&lng=%v", url.PathEscape(userID), lat, lng)
	err := c.post(ctx, path, nil, &wire, callOptions{fallback: "check-in failed"})
	if err != nil {
		return nil, err
	}
	record := wire.normalize()
	return &record, nil
}

// CheckOut clocks out an open attendance record.
func (c *Client) CheckOut(ctx context.Context, attendanceID string) (*AttendanceRecord, error) {
	var wire wireAttendance
	path := "/api/v1/attendance/logout/" + url.PathEscape(attendanceID)
	err := c.post(ctx, path, nil, &wire, callOptions{fallback: "check-out failed"})
	if err != nil {
		return nil, err
	}
	record := wire.normalize()
	return &record, nil
}

// AttendanceStatsFor returns the backend's aggregate figures for a user.
// These are authoritative; the calendar sheet never overrides them.
func (c *Client) AttendanceStatsFor(ctx context.Context, userID string) (*AttendanceStats, error) {
	var stats AttendanceStats
	path := "/api/v1/attendance/stats/" + url.PathEscape(userID)
	if err := c.get(ctx, path, &stats, callOptions{fallback: "could not load attendance stats"}); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateAttendance lets an admin insert a manual record.
func (c *Client) CreateAttendance(ctx context.Context, record AttendanceRecord) (*AttendanceRecord, error) {
	in := map[string]any{
		"user_id":   record.UserID,
		"date":      record.Date.Format("2006-01-02"),
		"status":    record.Status,
		"check_in":  record.CheckIn,
		"check_out": record.CheckOut,
	}
	var wire wireAttendance
	err := c.post(ctx, "/api/v1/attendance", in, &wire, callOptions{fallback: "could not create attendance record"})
	if err != nil {
		return nil, err
	}
	created := wire.normalize()
	return &created, nil
}
