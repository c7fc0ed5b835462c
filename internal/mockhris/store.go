package mockhris

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// The wire types below are the backend's payload shapes. Dates travel as
// YYYY-MM-DD strings, timestamps as RFC 3339.

type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id"`
	CompanyID  string `json:"company_id"`
	AvatarURL  string `json:"avatar_url"`

	passwordHash []byte
	approved     bool
}

type Attendance struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Date            string     `json:"date"`
	CheckIn         *time.Time `json:"check_in"`
	CheckOut        *time.Time `json:"check_out"`
	Status          string     `json:"status"`
	IPAddress       string     `json:"ip_address"`
	LogoutIPAddress string     `json:"logout_ip_address"`
	CanCheckOut     bool       `json:"can_check_out"`
}

type LeaveRequest struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
}

type Holiday struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PayrollSlip struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Period    string    `json:"period"`
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

	content []byte
}

type Shift struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"`
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

// storeResult is the outcome of a store mutation.
type storeResult int

const (
	storeOK storeResult = iota
	storeNotFound
	storeConflict
)

// store is the in-memory backing state. One mutex guards everything, and
// every accessor copies values in and out while holding it, so handlers
// never touch shared objects after the lock is released. Contention is
// irrelevant for a development server.
type store struct {
	mu sync.Mutex

	users           map[string]*User
	attendance      map[string]*Attendance
	leaves          map[string]*LeaveRequest
	holidays        []Holiday
	branches        []Branch
	payrollSlips    map[string]*PayrollSlip
	documents       map[string]*Document
	shifts          map[string]*Shift
	shiftAssignment map[string]string // userID -> shiftID
	notices         map[string]*Notice
	reviews         map[string]*Review
	tickets         map[string]*Ticket
	resetTokens     map[string]string // reset token -> userID
}

func newStore() *store {
	return &store{
		users:           make(map[string]*User),
		attendance:      make(map[string]*Attendance),
		leaves:          make(map[string]*LeaveRequest),
		payrollSlips:    make(map[string]*PayrollSlip),
		documents:       make(map[string]*Document),
		shifts:          make(map[string]*Shift),
		shiftAssignment: make(map[string]string),
		notices:         make(map[string]*Notice),
		reviews:         make(map[string]*Review),
		tickets:         make(map[string]*Ticket),
		resetTokens:     make(map[string]string),
	}
}

// seed populates a small company so the server is useful the moment it
// starts: one admin, one employee, branches, shifts, a holiday calendar.
func (s *store) seed() {
	admin := &User{
		ID:         uuid.NewString(),
		Email:      "admin@example.com",
		Name:       "Admin",
		Role:       "admin",
		EmployeeID: "EMP-0001",
		CompanyID:  "company-1",
		approved:   true,
	}
	admin.passwordHash, _ = bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)

	employee := &User{
		ID:         uuid.NewString(),
		Email:      "employee@example.com",
		Name:       "Employee",
		Role:       "employee",
		EmployeeID: "EMP-0002",
		CompanyID:  "company-1",
		approved:   true,
	}
	employee.passwordHash, _ = bcrypt.GenerateFromPassword([]byte("employee12345"), bcrypt.DefaultCost)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[admin.ID] = admin
	s.users[employee.ID] = employee

	s.branches = []Branch{
		{ID: uuid.NewString(), Name: "Head Office"},
		{ID: uuid.NewString(), Name: "Surabaya"},
	}
	s.holidays = []Holiday{
		{ID: uuid.NewString(), Name: "New Year", Date: "2026-01-01"},
		{ID: uuid.NewString(), Name: "Independence Day", Date: "2026-08-17"},
		{ID: uuid.NewString(), Name: "Christmas", Date: "2026-12-25"},
	}
	for _, shift := range []*Shift{
		{ID: uuid.NewString(), Name: "Morning", Start: "08:00", End: "17:00"},
		{ID: uuid.NewString(), Name: "Evening", Start: "14:00", End: "23:00"},
	} {
		s.shifts[shift.ID] = shift
	}
}

func (s *store) userByEmail(email string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return *u, true
		}
	}
	return User{}, false
}

func (s *store) userByEmployeeCode(code string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.EmployeeID != "" && u.EmployeeID == code {
			return *u, true
		}
	}
	return User{}, false
}

func (s *store) userByID(id string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return *u, true
	}
	return User{}, false
}

func (s *store) addUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

// updateUser applies mutate to the stored user under the lock and hands
// back the updated copy.
func (s *store) updateUser(id string, mutate func(*User)) (User, storeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, storeNotFound
	}
	mutate(u)
	return *u, storeOK
}

// setPassword swaps the stored hash. The old slice is never mutated in
// place, so copies handed out earlier stay valid.
func (s *store) setPassword(id string, hash []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false
	}
	u.passwordHash = hash
	return true
}

func (s *store) deleteUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	return true
}

func (s *store) listUsers() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].EmployeeID < users[j].EmployeeID })
	return users
}

func (s *store) attendanceOn(userID, date string) (Attendance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attendance {
		if a.UserID == userID && a.Date == date {
			return *a, true
		}
	}
	return Attendance{}, false
}

func (s *store) attendanceByID(id string) (Attendance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.attendance[id]; ok {
		return *a, true
	}
	return Attendance{}, false
}

func (s *store) attendanceByUser(userID string) []Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := []Attendance{}
	for _, a := range s.attendance {
		if a.UserID == userID {
			records = append(records, *a)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records
}

// addAttendance inserts a record unless the user already has one for the
// same day.
func (s *store) addAttendance(a Attendance) storeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.attendance {
		if existing.UserID == a.UserID && existing.Date == a.Date {
			return storeConflict
		}
	}
	s.attendance[a.ID] = &a
	return storeOK
}

// closeAttendance stamps the check-out on an open record.
func (s *store) closeAttendance(id, ip string, at time.Time) (Attendance, storeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attendance[id]
	if !ok {
		return Attendance{}, storeNotFound
	}
	if a.CheckOut != nil {
		return Attendance{}, storeConflict
	}
	a.CheckOut = &at
	a.LogoutIPAddress = ip
	a.CanCheckOut = false
	return *a, storeOK
}

func (s *store) leavesByUser(userID string) []LeaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	leaves := []LeaveRequest{}
	for _, l := range s.leaves {
		if l.UserID == userID {
			leaves = append(leaves, *l)
		}
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].StartDate < leaves[j].StartDate })
	return leaves
}

func (s *store) addLeave(l LeaveRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves[l.ID] = &l
}

// setLeaveStatus transitions a pending leave. Only one caller can win the
// transition; everyone else gets a conflict.
func (s *store) setLeaveStatus(id, status string) (LeaveRequest, storeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leaves[id]
	if !ok {
		return LeaveRequest{}, storeNotFound
	}
	if l.Status != "pending" {
		return LeaveRequest{}, storeConflict
	}
	l.Status = status
	return *l, storeOK
}

func (s *store) listHolidays() []Holiday {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Holiday(nil), s.holidays...)
}

func (s *store) listBranches() []Branch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Branch(nil), s.branches...)
}

func (s *store) payrollByUser(userID string) []PayrollSlip {
	s.mu.Lock()
	defer s.mu.Unlock()
	slips := []PayrollSlip{}
	for _, p := range s.payrollSlips {
		if p.UserID == userID {
			slips = append(slips, *p)
		}
	}
	sort.Slice(slips, func(i, j int) bool { return slips[i].Period < slips[j].Period })
	return slips
}

func (s *store) payrollByID(id string) (PayrollSlip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.payrollSlips[id]; ok {
		return *p, true
	}
	return PayrollSlip{}, false
}

func (s *store) addDocument(d Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[d.ID] = &d
}

func (s *store) documentByID(id string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.documents[id]; ok {
		return *d, true
	}
	return Document{}, false
}

func (s *store) documentsByOwner(ownerID string) []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := []Document{}
	for _, d := range s.documents {
		if d.OwnerID == ownerID {
			docs = append(docs, *d)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs
}

func (s *store) listShifts() []Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	shifts := make([]Shift, 0, len(s.shifts))
	for _, sh := range s.shifts {
		shifts = append(shifts, *sh)
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].Start < shifts[j].Start })
	return shifts
}

func (s *store) shiftByID(id string) (Shift, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sh, ok := s.shifts[id]; ok {
		return *sh, true
	}
	return Shift{}, false
}

func (s *store) assignShift(userID, shiftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shiftAssignment[userID] = shiftID
}

func (s *store) addNotice(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices[n.ID] = &n
}

// markNoticeRead flips the read flag under the lock.
func (s *store) markNoticeRead(id string) (Notice, storeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notices[id]
	if !ok {
		return Notice{}, storeNotFound
	}
	n.Read = true
	return *n, storeOK
}

func (s *store) listNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	notices := make([]Notice, 0, len(s.notices))
	for _, n := range s.notices {
		notices = append(notices, *n)
	}
	sort.Slice(notices, func(i, j int) bool { return notices[i].CreatedAt.After(notices[j].CreatedAt) })
	return notices
}

func (s *store) reviewsByUser(userID string) []Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	reviews := []Review{}
	for _, r := range s.reviews {
		if r.UserID == userID {
			reviews = append(reviews, *r)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].Period < reviews[j].Period })
	return reviews
}

func (s *store) addReview(r Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[r.ID] = &r
}

func (s *store) listTickets() []Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	tickets := make([]Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		tickets = append(tickets, *t)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].CreatedAt.Before(tickets[j].CreatedAt) })
	return tickets
}

func (s *store) addTicket(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[t.ID] = &t
}

func (s *store) createResetToken(userID string) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetTokens[token] = userID
	return token
}

func (s *store) consumeResetToken(token string) (userID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok = s.resetTokens[token]
	if ok {
		delete(s.resetTokens, token)
	}
	return userID, ok
}
