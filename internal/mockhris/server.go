package mockhris

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Server is an in-memory HRIS backend for development and tests. It
// speaks the same wire contract as the production API: plain resource
// JSON on success, a {"message"} envelope on errors, access tokens in
// the Authorization header and the refresh token in an HTTP-only cookie
// scoped to /api/v1/auth.
type Server struct {
	store  *store
	tokens *tokenService
	router *chi.Mux

	geofenceLat    float64
	geofenceLng    float64
	geofenceRadius float64
	openSignup     bool
}

// Options tune the server. The zero value is usable: a random-ish secret
// would defeat restarts, so a fixed development secret is the default.
type Options struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Office location for the check-in geofence.
	GeofenceLat    float64
	GeofenceLng    float64
	GeofenceRadius float64 // meters, 0 disables the fence

	// OpenSignup skips the admin-approval step on register.
	OpenSignup bool

	// Quiet disables request logging, for tests.
	Quiet bool
}

func New(opts Options) *Server {
	if opts.Secret == "" {
		opts.Secret = "mockhris-dev-secret"
	}
	if opts.AccessTTL == 0 {
		opts.AccessTTL = time.Hour
	}
	if opts.RefreshTTL == 0 {
		opts.RefreshTTL = 168 * time.Hour
	}

	s := &Server{
		store:          newStore(),
		tokens:         newTokenService(opts.Secret, opts.AccessTTL, opts.RefreshTTL),
		geofenceLat:    opts.GeofenceLat,
		geofenceLng:    opts.GeofenceLng,
		geofenceRadius: opts.GeofenceRadius,
		openSignup:     opts.OpenSignup,
	}
	s.store.seed()
	s.router = s.newRouter(opts.Quiet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) newRouter(quiet bool) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if !quiet {
		logFormat := httplog.SchemaECS.Concise(false)
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			ReplaceAttr: logFormat.ReplaceAttr,
		})).With(
			slog.String("app", "mockhris"),
			slog.String("env", "development"),
		)
		r.Use(httplog.RequestLogger(logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/login/employee-code", s.handleLoginWithEmployeeCode)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
			r.Post("/forgot-password", s.handleForgotPassword)
			r.Post("/reset-password", s.handleResetPassword)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(s.tokens.jwtAuth()))
			r.Use(s.authRequired)

			r.Post("/auth/change-password", s.handleChangePassword)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.Post("/", s.handleCreateUser)
				r.Get("/me", s.handleCurrentUser)
				r.Get("/{userID}", s.handleGetUser)
				r.Put("/{userID}", s.handleUpdateUser)
				r.Delete("/{userID}", s.handleDeleteUser)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", s.handleAttendanceQuery)
				r.Post("/", s.handleCreateAttendance)
				r.Post("/login/{userID}", s.handleCheckIn)
				r.Post("/logout/{attendanceID}", s.handleCheckOut)
				r.Get("/stats/{userID}", s.handleAttendanceStats)
				r.Get("/{userID}", s.handleAttendanceByUser)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/", s.handleListLeaves)
				r.Post("/", s.handleRequestLeave)
				r.Put("/{leaveID}/approve", s.handleApproveLeave)
				r.Put("/{leaveID}/reject", s.handleRejectLeave)
			})

			r.Get("/holidays", s.handleListHolidays)
			r.Get("/branches", s.handleListBranches)

			r.Route("/payroll/slips", func(r chi.Router) {
				r.Get("/", s.handleListPayrollSlips)
				r.Get("/{slipID}", s.handleGetPayrollSlip)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", s.handleListDocuments)
				r.Post("/", s.handleUploadDocument)
				r.Get("/{documentID}/download", s.handleDownloadDocument)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.handleListNotices)
				r.Put("/{noticeID}/read", s.handleMarkNoticeRead)
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", s.handleListShifts)
				r.Post("/{shiftID}/assign", s.handleAssignShift)
			})

			r.Route("/performance/reviews", func(r chi.Router) {
				r.Get("/", s.handleListReviews)
				r.Post("/", s.handleSubmitReview)
			})

			r.Route("/helpdesk/tickets", func(r chi.Router) {
				r.Get("/", s.handleListTickets)
				r.Post("/", s.handleOpenTicket)
			})
		})
	})

	return r
}

// authRequired rejects requests without a valid access token. Refresh
// tokens are not accepted here even though they verify: the type claim
// must say access.
func (s *Server) authRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			unauthorized(w, "missing or invalid access token")
			return
		}
		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != "access" {
			unauthorized(w, "missing or invalid access token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// identity returns a copy of the authenticated user. The second return
// is false when the token's user no longer exists.
func (s *Server) identity(r *http.Request) (User, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return User{}, false
	}
	userID, _ := claims["user_id"].(string)
	return s.store.userByID(userID)
}
