package mockhris

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// lateThreshold is the wall-clock time after which a check-in counts as
// late.
const lateThreshold = "09:00"

func (s *Server) handleAttendanceByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, found := s.store.userByID(userID); !found {
		notFound(w, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, s.store.attendanceByUser(userID))
}

func (s *Server) handleAttendanceQuery(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	date := r.URL.Query().Get("date")
	if userID == "" || date == "" {
		badRequest(w, "userId and date are required")
		return
	}

	records := []Attendance{}
	if record, found := s.store.attendanceOn(userID, date); found {
		records = append(records, record)
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, found := s.store.userByID(userID); !found {
		notFound(w, "user not found")
		return
	}

	if s.geofenceRadius > 0 {
		lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
		if latErr != nil || lngErr != nil {
			badRequest(w, "lat and lng are required")
			return
		}
		distance := haversineDistance(lat, lng, s.geofenceLat, s.geofenceLng)
		if distance > s.geofenceRadius {
			badRequest(w, "you are too far from the office to check in")
			return
		}
	}

	now := time.Now()
	today := now.Format("2006-01-02")

	status := "present"
	if now.Format("15:04") > lateThreshold {
		status = "late"
	}

	checkIn := now
	record := Attendance{
		ID:          uuid.NewString(),
		UserID:      userID,
		Date:        today,
		CheckIn:     &checkIn,
		Status:      status,
		IPAddress:   r.RemoteAddr,
		CanCheckOut: true,
	}
	if s.store.addAttendance(record) == storeConflict {
		conflict(w, "already checked in today")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	attendanceID := chi.URLParam(r, "attendanceID")
	record, res := s.store.closeAttendance(attendanceID, r.RemoteAddr, time.Now())
	switch res {
	case storeNotFound:
		notFound(w, "attendance record not found")
	case storeConflict:
		conflict(w, "already checked out")
	default:
		writeJSON(w, http.StatusOK, record)
	}
}

type attendanceStats struct {
	PresentDays    int     `json:"present_days"`
	LateDays       int     `json:"late_days"`
	AbsentDays     int     `json:"absent_days"`
	LeaveDays      int     `json:"leave_days"`
	AttendanceRate float64 `json:"attendance_rate"`
}

func (s *Server) handleAttendanceStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, found := s.store.userByID(userID); !found {
		notFound(w, "user not found")
		return
	}

	var stats attendanceStats
	for _, record := range s.store.attendanceByUser(userID) {
		switch record.Status {
		case "present":
			stats.PresentDays++
		case "late":
			stats.LateDays++
		case "absent":
			stats.AbsentDays++
		}
	}
	for _, leave := range s.store.leavesByUser(userID) {
		if leave.Status != "approved" {
			continue
		}
		start, err1 := time.Parse("2006-01-02", leave.StartDate)
		end, err2 := time.Parse("2006-01-02", leave.EndDate)
		if err1 != nil || err2 != nil {
			continue
		}
		stats.LeaveDays += int(end.Sub(start).Hours()/24) + 1
	}

	total := stats.PresentDays + stats.LateDays + stats.AbsentDays
	if total > 0 {
		stats.AttendanceRate = float64(stats.PresentDays+stats.LateDays) / float64(total)
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCreateAttendance(w http.ResponseWriter, r *http.Request) {
	actor, found := s.identity(r)
	if !found || actor.Role != "admin" {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	var req struct {
		UserID   string     `json:"user_id"`
		Date     string     `json:"date"`
		Status   string     `json:"status"`
		CheckIn  *time.Time `json:"check_in"`
		CheckOut *time.Time `json:"check_out"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Date == "" {
		badRequest(w, "user_id and date are required")
		return
	}
	if _, found := s.store.userByID(req.UserID); !found {
		notFound(w, "user not found")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		badRequest(w, "date must be YYYY-MM-DD")
		return
	}

	record := Attendance{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		Date:     req.Date,
		Status:   req.Status,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
	}
	if s.store.addAttendance(record) == storeConflict {
		conflict(w, "attendance record already exists for that date")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}
