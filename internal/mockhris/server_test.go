package mockhris_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-client-go/calendar"
	"github.com/cmlabs-hris/hris-client-go/hris"
	"github.com/cmlabs-hris/hris-client-go/internal/mockhris"
)

func startServer(t *testing.T, opts mockhris.Options) *httptest.Server {
	t.Helper()
	opts.Quiet = true
	server := httptest.NewServer(mockhris.New(opts))
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T, baseURL string) *hris.Client {
	t.Helper()
	client, err := hris.New(hris.Config{BaseURL: baseURL})
	require.NoError(t, err)
	return client
}

func login(t *testing.T, client *hris.Client, email, password string) *hris.LoginResult {
	t.Helper()
	result, err := client.Login(context.Background(), hris.Credentials{Email: email, Password: password})
	require.NoError(t, err)
	return result
}

func TestEndToEnd_AttendanceDay(t *testing.T) {
	server := startServer(t, mockhris.Options{})
	client := newClient(t, server.URL)
	ctx := context.Background()

	result := login(t, client, "employee@example.com", "employee12345")
	assert.Equal(t, "employee", result.User.Role)
	userID := result.User.ID

	record, err := client.CheckIn(ctx, userID, -6.2, 106.8)
	require.NoError(t, err)
	require.NotNil(t, record.CheckIn)
	assert.True(t, record.CanCheckOut)

	// Second check-in the same day is rejected with the backend's text.
	_, err = client.CheckIn(ctx, userID, -6.2, 106.8)
	require.Error(t, err)
	var apiErr *hris.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "already checked in today", apiErr.Message)

	record, err = client.CheckOut(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, record.CheckOut)
	assert.False(t, record.CanCheckOut)

	today, err := client.AttendanceOn(ctx, userID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, record.ID, today.ID)
}

func TestEndToEnd_GeofenceRejectsRemoteCheckIn(t *testing.T) {
	server := startServer(t, mockhris.Options{
		GeofenceLat:    -6.2,
		GeofenceLng:    106.8,
		GeofenceRadius: 250,
	})
	client := newClient(t, server.URL)
	ctx := context.Background()

	result := login(t, client, "employee@example.com", "employee12345")

	// Roughly 100 km away.
	_, err := client.CheckIn(ctx, result.User.ID, -7.1, 106.8)
	require.Error(t, err)
	assert.True(t, hris.IsValidation(err))

	// At the office it goes through.
	record, err := client.CheckIn(ctx, result.User.ID, -6.2001, 106.8001)
	require.NoError(t, err)
	assert.NotNil(t, record.CheckIn)
}

func TestEndToEnd_RefreshViaCookie(t *testing.T) {
	server := startServer(t, mockhris.Options{})
	client := newClient(t, server.URL)
	ctx := context.Background()

	result := login(t, client, "employee@example.com", "employee12345")

	// Simulate an expired access token. The refresh cookie in the jar
	// must bring the session back without the caller noticing.
	require.NoError(t, client.SetToken("expired-access-token"))

	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)
	assert.NotEqual(t, "expired-access-token", client.Token())
}

func TestEndToEnd_LogoutKillsRefresh(t *testing.T) {
	server := startServer(t, mockhris.Options{})
	client := newClient(t, server.URL)
	ctx := context.Background()

	login(t, client, "employee@example.com", "employee12345")
	require.NoError(t, client.Logout(ctx))

	// No session, and the cleared cookie means no silent resurrection.
	_, err := client.CurrentUser(ctx)
	assert.ErrorIs(t, err, hris.ErrNotLoggedIn)
}

func TestEndToEnd_LeaveApprovalFlow(t *testing.T) {
	server := startServer(t, mockhris.Options{})
	ctx := context.Background()

	employee := newClient(t, server.URL)
	result := login(t, employee, "employee@example.com", "employee12345")

	leave, err := employee.RequestLeave(ctx, hris.LeaveRequest{
		Type:      "vacation",
		StartDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.Local),
		EndDate:   time.Date(2026, 9, 9, 0, 0, 0, 0, time.Local),
		Reason:    "family trip",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", leave.Status)

	// A plain employee cannot approve.
	err = employee.ApproveLeave(ctx, leave.ID)
	require.Error(t, err)
	assert.True(t, hris.IsAuth(err))

	admin := newClient(t, server.URL)
	login(t, admin, "admin@example.com", "admin12345")
	require.NoError(t, admin.ApproveLeave(ctx, leave.ID))

	leaves, err := employee.LeavesByUser(ctx, result.User.ID)
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, "approved", leaves[0].Status)

	// Approving twice is a conflict.
	err = admin.ApproveLeave(ctx, leave.ID)
	require.Error(t, err)
	var apiErr *hris.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "leave request already processed", apiErr.Message)
}

func TestEndToEnd_CalendarSheet(t *testing.T) {
	server := startServer(t, mockhris.Options{})
	ctx := context.Background()

	employee := newClient(t, server.URL)
	result := login(t, employee, "employee@example.com", "employee12345")
	userID := result.User.ID

	admin := newClient(t, server.URL)
	login(t, admin, "admin@example.com", "admin12345")

	// Backfill a late day through the admin endpoint.
	checkIn := time.Date(2026, 8, 3, 9, 40, 0, 0, time.Local)
	_, err := admin.CreateAttendance(ctx, hris.AttendanceRecord{
		UserID:  userID,
		Date:    time.Date(2026, 8, 3, 0, 0, 0, 0, time.Local),
		Status:  "late",
		CheckIn: &checkIn,
	})
	require.NoError(t, err)

	leave, err := employee.RequestLeave(ctx, hris.LeaveRequest{
		Type:      "sick",
		StartDate: time.Date(2026, 8, 5, 0, 0, 0, 0, time.Local),
		EndDate:   time.Date(2026, 8, 6, 0, 0, 0, 0, time.Local),
		Reason:    "flu",
	})
	require.NoError(t, err)
	require.NoError(t, admin.ApproveLeave(ctx, leave.ID))

	sheet, err := employee.CalendarSheet(ctx, userID)
	require.NoError(t, err)

	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	assert.Equal(t, calendar.StatusLate,
		sheet.StatusOf(time.Date(2026, 8, 3, 0, 0, 0, 0, time.Local), today).Status)
	assert.Equal(t, calendar.StatusSickLeave,
		sheet.StatusOf(time.Date(2026, 8, 5, 0, 0, 0, 0, time.Local), today).Status)
	// Seeded public holiday.
	assert.Equal(t, calendar.StatusHoliday,
		sheet.StatusOf(time.Date(2026, 8, 17, 0, 0, 0, 0, time.Local), today).Status)
}

func TestEndToEnd_DocumentRoundTrip(t *testing.T) {
	server := startServer(t, mockhris.Options{})
	client := newClient(t, server.URL)
	ctx := context.Background()

	login(t, client, "employee@example.com", "employee12345")

	content := []byte("payslip pdf bytes")
	doc, err := client.UploadDocument(ctx, "payslip.pdf", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "payslip.pdf", doc.Name)
	assert.EqualValues(t, len(content), doc.Size)

	downloaded, err := client.DownloadDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, content, downloaded)

	docs, err := client.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)
}

func TestEndToEnd_EmployeeCodeLogin(t *testing.T) {
	server := startServer(t, mockhris.Options{})
	client := newClient(t, server.URL)
	ctx := context.Background()

	result, err := client.LoginWithEmployeeCode(ctx, hris.EmployeeCredentials{
		EmployeeCode: "EMP-0002",
		Password:     "employee12345",
	})
	require.NoError(t, err)
	assert.Equal(t, "employee@example.com", result.User.Email)
	assert.NotEmpty(t, client.Token())

	// The session is live, same as an email login.
	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	// A wrong password shows the same vague text as an unknown code.
	_, err = client.LoginWithEmployeeCode(ctx, hris.EmployeeCredentials{
		EmployeeCode: "EMP-0002",
		Password:     "wrongpassword",
	})
	require.Error(t, err)
	var apiErr *hris.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid employee code or password", apiErr.Message)

	_, err = client.LoginWithEmployeeCode(ctx, hris.EmployeeCredentials{
		EmployeeCode: "EMP-9999",
		Password:     "employee12345",
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid employee code or password", apiErr.Message)
}

func TestEndToEnd_AdminProvisionsUser(t *testing.T) {
	server := startServer(t, mockhris.Options{})
	ctx := context.Background()

	admin := newClient(t, server.URL)
	login(t, admin, "admin@example.com", "admin12345")

	created, err := admin.CreateUser(ctx, hris.NewUser{
		Name:         "Dewi",
		Email:        "dewi@example.com",
		Password:     "secret1234",
		EmployeeCode: "EMP-0003",
	})
	require.NoError(t, err)
	assert.Equal(t, "dewi@example.com", created.Email)
	assert.Equal(t, "employee", created.Role)
	assert.Equal(t, "EMP-0003", created.EmployeeID)

	// No approval step: the new account signs in immediately.
	fresh := newClient(t, server.URL)
	result := login(t, fresh, "dewi@example.com", "secret1234")
	assert.Equal(t, created.ID, result.User.ID)

	// A duplicate address is a conflict, not a silent overwrite.
	_, err = admin.CreateUser(ctx, hris.NewUser{
		Name:     "Dewi Again",
		Email:    "dewi@example.com",
		Password: "secret1234",
	})
	require.Error(t, err)
	var apiErr *hris.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "email already registered", apiErr.Message)

	// Plain employees cannot provision accounts.
	employee := newClient(t, server.URL)
	login(t, employee, "employee@example.com", "employee12345")
	_, err = employee.CreateUser(ctx, hris.NewUser{
		Name:     "Eka",
		Email:    "eka@example.com",
		Password: "secret1234",
	})
	require.Error(t, err)
	assert.True(t, hris.IsAuth(err))
}

func TestEndToEnd_RegisterPendingApproval(t *testing.T) {
	server := startServer(t, mockhris.Options{})
	client := newClient(t, server.URL)
	ctx := context.Background()

	result, err := client.Register(ctx, hris.Registration{
		Name:            "Citra",
		Email:           "citra@example.com",
		Password:        "secret1234",
		ConfirmPassword: "secret1234",
	})
	require.NoError(t, err)
	assert.True(t, result.Pending)
	assert.Empty(t, client.Token())

	// Until approved, login is refused.
	_, err = client.Login(ctx, hris.Credentials{Email: "citra@example.com", Password: "secret1234"})
	require.Error(t, err)
	assert.True(t, hris.IsAuth(err))
}
