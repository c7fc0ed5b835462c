package mockhris

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListBranches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listBranches())
}

func (s *Server) handleListPayrollSlips(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		badRequest(w, "userId is required")
		return
	}
	writeJSON(w, http.StatusOK, s.store.payrollByUser(userID))
}

func (s *Server) handleGetPayrollSlip(w http.ResponseWriter, r *http.Request) {
	slip, found := s.store.payrollByID(chi.URLParam(r, "slipID"))
	if !found {
		notFound(w, "payroll slip not found")
		return
	}
	writeJSON(w, http.StatusOK, slip)
}

func (s *Server) handleListNotices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listNotices())
}

func (s *Server) handleMarkNoticeRead(w http.ResponseWriter, r *http.Request) {
	notice, res := s.store.markNoticeRead(chi.URLParam(r, "noticeID"))
	if res == storeNotFound {
		notFound(w, "notification not found")
		return
	}
	writeJSON(w, http.StatusOK, notice)
}

func (s *Server) handleListShifts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listShifts())
}

func (s *Server) handleAssignShift(w http.ResponseWriter, r *http.Request) {
	actor, found := s.identity(r)
	if !found || actor.Role != "admin" {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	shift, found := s.store.shiftByID(chi.URLParam(r, "shiftID"))
	if !found {
		notFound(w, "shift not found")
		return
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if _, found := s.store.userByID(req.UserID); !found {
		notFound(w, "user not found")
		return
	}

	s.store.assignShift(req.UserID, shift.ID)
	writeJSON(w, http.StatusOK, authResponse{Message: "shift assigned"})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		badRequest(w, "userId is required")
		return
	}
	writeJSON(w, http.StatusOK, s.store.reviewsByUser(userID))
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	actor, found := s.identity(r)
	if !found {
		unauthorized(w, "user no longer exists")
		return
	}

	var req struct {
		UserID  string  `json:"user_id"`
		Period  string  `json:"period"`
		Score   float64 `json:"score"`
		Summary string  `json:"summary"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if _, found := s.store.userByID(req.UserID); !found {
		notFound(w, "user not found")
		return
	}

	review := Review{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		ReviewerID: actor.ID,
		Period:     req.Period,
		Score:      req.Score,
		Summary:    req.Summary,
	}
	s.store.addReview(review)
	writeJSON(w, http.StatusCreated, review)
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listTickets())
}

func (s *Server) handleOpenTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Subject == "" {
		badRequest(w, "subject is required")
		return
	}

	ticket := Ticket{
		ID:        uuid.NewString(),
		Subject:   req.Subject,
		Body:      req.Body,
		Status:    "open",
		CreatedAt: time.Now(),
	}
	s.store.addTicket(ticket)
	writeJSON(w, http.StatusCreated, ticket)
}
