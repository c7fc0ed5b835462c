package mockhris

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type createUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id"`
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, found := s.identity(r)
	if !found {
		unauthorized(w, "user no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listUsers())
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, found := s.store.userByID(chi.URLParam(r, "userID"))
	if !found {
		notFound(w, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleCreateUser lets an admin provision an account directly, already
// approved, bypassing the register-and-wait flow.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	actor, found := s.identity(r)
	if !found || actor.Role != "admin" {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	var req createUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		badRequest(w, "name, email and a password of at least 8 characters are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, exists := s.store.userByEmail(email); exists {
		conflict(w, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	role := req.Role
	if role == "" {
		role = "employee"
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         req.Name,
		Role:         role,
		EmployeeID:   strings.ToUpper(strings.TrimSpace(req.EmployeeID)),
		CompanyID:    "company-1",
		passwordHash: hash,
		approved:     true,
	}
	s.store.addUser(user)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := s.identity(r)
	targetID := chi.URLParam(r, "userID")
	if _, found := s.store.userByID(targetID); !found {
		notFound(w, "user not found")
		return
	}
	if actor.Role != "admin" && actor.ID != targetID {
		writeError(w, http.StatusForbidden, "not allowed to update this user")
		return
	}

	var fields map[string]any
	if !decodeBody(w, r, &fields) {
		return
	}

	user, res := s.store.updateUser(targetID, func(u *User) {
		if name, ok := fields["name"].(string); ok && name != "" {
			u.Name = name
		}
		if avatar, ok := fields["avatar_url"].(string); ok {
			u.AvatarURL = avatar
		}
		// Role changes are admin-only.
		if role, ok := fields["role"].(string); ok && role != "" && actor.Role == "admin" {
			u.Role = role
		}
	})
	if res != storeOK {
		notFound(w, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, found := s.identity(r)
	if !found || actor.Role != "admin" {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}
	if !s.store.deleteUser(chi.URLParam(r, "userID")) {
		notFound(w, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Message: "user deleted"})
}
