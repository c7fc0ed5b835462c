package mockhris

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var leaveTypes = map[string]bool{
	"sick":     true,
	"casual":   true,
	"vacation": true,
	"unpaid":   true,
}

func (s *Server) handleListLeaves(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		badRequest(w, "userId is required")
		return
	}
	writeJSON(w, http.StatusOK, s.store.leavesByUser(userID))
}

func (s *Server) handleRequestLeave(w http.ResponseWriter, r *http.Request) {
	user, found := s.identity(r)
	if !found {
		unauthorized(w, "user no longer exists")
		return
	}

	var req struct {
		Type      string `json:"type"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Reason    string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !leaveTypes[req.Type] {
		badRequest(w, "type must be one of sick, casual, vacation, unpaid")
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		badRequest(w, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		badRequest(w, "end_date must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		badRequest(w, "end_date must not be before start_date")
		return
	}
	if req.Reason == "" {
		badRequest(w, "reason is required")
		return
	}

	leave := LeaveRequest{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Type:      req.Type,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Status:    "pending",
	}
	s.store.addLeave(leave)
	writeJSON(w, http.StatusCreated, leave)
}

func (s *Server) handleApproveLeave(w http.ResponseWriter, r *http.Request) {
	s.resolveLeave(w, r, "approved")
}

func (s *Server) handleRejectLeave(w http.ResponseWriter, r *http.Request) {
	s.resolveLeave(w, r, "rejected")
}

func (s *Server) resolveLeave(w http.ResponseWriter, r *http.Request, status string) {
	actor, found := s.identity(r)
	if !found || actor.Role != "admin" {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	leave, res := s.store.setLeaveStatus(chi.URLParam(r, "leaveID"), status)
	switch res {
	case storeNotFound:
		notFound(w, "leave request not found")
	case storeConflict:
		conflict(w, "leave request already processed")
	default:
		writeJSON(w, http.StatusOK, leave)
	}
}

func (s *Server) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listHolidays())
}
