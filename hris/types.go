package hris

import (
	"encoding/json"
	"strings"
	"time"
)

// ========================================
// NORMALIZED MODEL
// ========================================
//
// Backend payloads are decoded into wire structs and normalized into
// these types once, at the edge. Call sites never see raw payload shapes
// or defensive fallback chains.

type User struct {
	ID         string
	Email      string
	Name       string
	Role       string
	EmployeeID string
	CompanyID  string
	AvatarURL  string
}

// AttendanceRecord is one attendance row. Created by the backend on
// check-in, mutated on check-out; read-only for this client apart from
// admin manual edits.
type AttendanceRecord struct {
	ID              string
	UserID          string
	Date            time.Time
	CheckIn         *time.Time
	CheckOut        *time.Time
	Status          string
	IPAddress       string
	LogoutIPAddress string
	CanCheckOut     bool
}

type Leave struct {
	ID        string
	UserID    string
	Type      string // "sick", "casual", "vacation", "unpaid"
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	Status    string // "pending", "approved", "rejected"
}

type Holiday struct {
	ID   string
	Name string
	Date time.Time
}

// AttendanceStats are the backend's aggregate figures, passed through
// verbatim. The client never recomputes them from its own calendar map.
type AttendanceStats struct {
	PresentDays    int     `json:"present_days"`
	LateDays       int     `json:"late_days"`
	AbsentDays     int     `json:"absent_days"`
	LeaveDays      int     `json:"leave_days"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// The remaining resources arrive in exactly the shape we keep them, so
// they decode straight off the wire without a separate wire struct.

type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PayrollSlip struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Period    string    `json:"period"` // YYYY-MM
	BaseGross float64   `json:"base_gross"`
	NetPay    float64   `json:"net_pay"`
	IssuedAt  time.Time `json:"issued_at"`
}

type Document struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	OwnerID  string `json:"owner_id"`
}

type Shift struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"` // HH:MM wall clock
	End   string `json:"end"`
}

type Notice struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	ReviewerID string  `json:"reviewer_id"`
	Period     string  `json:"period"`
	Score      float64 `json:"score"`
	Summary    string  `json:"summary"`
}

type Ticket struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ========================================
// WIRE SHAPES
// ========================================

// apiDate accepts the two date encodings the backend emits: plain
// YYYY-MM-DD and full RFC 3339 timestamps. Parsed in local time so the
// calendar day is never shifted across timezones.
type apiDate struct {
	time.Time
}

func (d *apiDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return err
	}
	d.Time = t.Local()
	return nil
}

// apiRole tolerates both a bare role string and a role object with a
// name field. The ambiguity is confined to this one type.
type apiRole string

func (r *apiRole) UnmarshalJSON(data []byte) error {
	var plain string
	if json.Unmarshal(data, &plain) == nil {
		*r = apiRole(plain)
		return nil
	}
	var object struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &object); err != nil {
		return err
	}
	*r = apiRole(object.Name)
	return nil
}

type wireUser struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       apiRole `json:"role"`
	EmployeeID string  `json:"employee_id"`
	CompanyID  string  `json:"company_id"`
	AvatarURL  string  `json:"avatar_url"`
}

func (w wireUser) normalize() User {
	return User{
		ID:         w.ID,
		Email:      strings.ToLower(strings.TrimSpace(w.Email)),
		Name:       w.Name,
		Role:       string(w.Role),
		EmployeeID: w.EmployeeID,
		CompanyID:  w.CompanyID,
		AvatarURL:  w.AvatarURL,
	}
}

type wireAttendance struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Date            apiDate    `json:"date"`
	CheckIn         *time.Time `json:"check_in"`
	CheckOut        *time.Time `json:"check_out"`
	Status          string     `json:"status"`
	IPAddress       string     `json:"ip_address"`
	LogoutIPAddress string     `json:"logout_ip_address"`
	CanCheckOut     *bool      `json:"can_check_out"`
}

func (w wireAttendance) normalize() AttendanceRecord {
	record := AttendanceRecord{
		ID:              w.ID,
		UserID:          w.UserID,
		Date:            w.Date.Time,
		CheckIn:         w.CheckIn,
		CheckOut:        w.CheckOut,
		Status:          strings.ToLower(w.Status),
		IPAddress:       w.IPAddress,
		LogoutIPAddress: w.LogoutIPAddress,
	}
	if w.CanCheckOut != nil {
		record.CanCheckOut = *w.CanCheckOut
	}
	return record
}

type wireLeave struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Type      string  `json:"type"`
	StartDate apiDate `json:"start_date"`
	EndDate   apiDate `json:"end_date"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`
}

func (w wireLeave) normalize() Leave {
	return Leave{
		ID:        w.ID,
		UserID:    w.UserID,
		Type:      strings.ToLower(w.Type),
		StartDate: w.StartDate.Time,
		EndDate:   w.EndDate.Time,
		Reason:    w.Reason,
		Status:    strings.ToLower(w.Status),
	}
}

type wireHoliday struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Date apiDate `json:"date"`
}

func (w wireHoliday) normalize() Holiday {
	return Holiday{ID: w.ID, Name: w.Name, Date: w.Date.Time}
}

func normalizeAttendance(wire []wireAttendance) []AttendanceRecord {
	records := make([]AttendanceRecord, len(wire))
	for i, w := range wire {
		records[i] = w.normalize()
	}
	return records
}

func normalizeLeaves(wire []wireLeave) []Leave {
	leaves := make([]Leave, len(wire))
	for i, w := range wire {
		leaves[i] = w.normalize()
	}
	return leaves
}

func normalizeHolidays(wire []wireHoliday) []Holiday {
	holidays := make([]Holiday, len(wire))
	for i, w := range wire {
		holidays[i] = w.normalize()
	}
	return holidays
}
