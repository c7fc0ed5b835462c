package mockhris

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type employeeLoginRequest struct {
	EmployeeCode string `json:"employee_code"`
	Password     string `json:"password"`
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type authResponse struct {
	AccessToken          string `json:"access_token,omitempty"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in,omitempty"`
	User                 *User  `json:"user,omitempty"`
	Message              string `json:"message,omitempty"`
}

// issueSession generates both tokens and sets the refresh cookie.
func (s *Server) issueSession(w http.ResponseWriter, user User) (*authResponse, bool) {
	accessToken, accessExp, err := s.tokens.generateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue access token")
		return nil, false
	}
	refreshToken, refreshExp, err := s.tokens.generateRefreshToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue refresh token")
		return nil, false
	}
	http.SetCookie(w, s.tokens.refreshTokenCookie(refreshToken, refreshExp))
	return &authResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: accessExp,
		User:                 &user,
	}, true
}

// authenticate runs the shared password and approval checks. The caller
// supplies the not-found message so email and employee-code login stay
// equally vague about which part was wrong.
func (s *Server) authenticate(w http.ResponseWriter, user User, found bool, password, failMessage string) bool {
	if !found {
		unauthorized(w, failMessage)
		return false
	}
	if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)); err != nil {
		unauthorized(w, failMessage)
		return false
	}
	if !user.approved {
		writeError(w, http.StatusForbidden, "account is awaiting approval")
		return false
	}
	return true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, found := s.store.userByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if !s.authenticate(w, user, found, req.Password, "invalid email or password") {
		return
	}

	resp, ok := s.issueSession(w, user)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLoginWithEmployeeCode(w http.ResponseWriter, r *http.Request) {
	var req employeeLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, found := s.store.userByEmployeeCode(strings.ToUpper(strings.TrimSpace(req.EmployeeCode)))
	if !s.authenticate(w, user, found, req.Password, "invalid employee code or password") {
		return
	}

	resp, ok := s.issueSession(w, user)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		badRequest(w, "name, email and a password of at least 8 characters are required")
		return
	}
	if req.ConfirmPassword != req.Password {
		badRequest(w, "password and confirm_password do not match")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, found := s.store.userByEmail(email); found {
		conflict(w, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         req.Name,
		Role:         "employee",
		CompanyID:    "company-1",
		passwordHash: hash,
		approved:     s.openSignup,
	}
	s.store.addUser(user)

	if !user.approved {
		writeJSON(w, http.StatusCreated, authResponse{
			User:    &user,
			Message: "account created, awaiting approval",
		})
		return
	}

	resp, ok := s.issueSession(w, user)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		unauthorized(w, "missing refresh token")
		return
	}

	userID, err := s.tokens.validateRefreshToken(cookie.Value)
	if err != nil {
		unauthorized(w, "refresh token expired")
		return
	}
	user, found := s.store.userByID(userID)
	if !found {
		unauthorized(w, "user no longer exists")
		return
	}

	// Rotate: the old refresh token is dead the moment a new one ships.
	s.tokens.revoke(cookie.Value)

	resp, ok := s.issueSession(w, user)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("refresh_token"); err == nil && cookie.Value != "" {
		s.tokens.revoke(cookie.Value)
	}
	http.SetCookie(w, s.tokens.clearedRefreshCookie())
	writeJSON(w, http.StatusOK, authResponse{Message: "logged out"})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	// Same answer whether or not the address is known, to prevent
	// enumeration. The reset token lands in the store, not an inbox.
	if user, found := s.store.userByEmail(strings.ToLower(strings.TrimSpace(req.Email))); found {
		s.store.createResetToken(user.ID)
	}
	writeJSON(w, http.StatusOK, authResponse{Message: "if the address exists, a reset link has been sent"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Password) < 8 {
		badRequest(w, "password must be at least 8 characters long")
		return
	}

	userID, ok := s.store.consumeResetToken(req.Token)
	if !ok {
		badRequest(w, "invalid or expired reset token")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	if !s.store.setPassword(userID, hash) {
		badRequest(w, "invalid or expired reset token")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Message: "password has been reset"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, found := s.identity(r)
	if !found {
		unauthorized(w, "user no longer exists")
		return
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(req.OldPassword)); err != nil {
		badRequest(w, "old password is incorrect")
		return
	}
	if len(req.NewPassword) < 8 {
		badRequest(w, "password must be at least 8 characters long")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	s.store.setPassword(user.ID, hash)
	writeJSON(w, http.StatusOK, authResponse{Message: "password changed"})
}
