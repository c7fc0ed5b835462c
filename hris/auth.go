package hris

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/validator"
)

// invalidCredentialsMessage is the only text a failed login ever shows.
// The backend deliberately does not distinguish an unknown account from a
// wrong password, and neither do we.
const invalidCredentialsMessage = "invalid email or password"

type tokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

// Credentials is the login input. Latitude and longitude are optional;
// when present the backend applies its geofence policy at sign-in.
type Credentials struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (c *Credentials) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(c.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(c.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if validator.IsEmpty(c.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(c.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long",
		})
	}

	if c.Latitude != nil && !validator.IsValidLatitude(*c.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if c.Longitude != nil && !validator.IsValidLongitude(*c.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EmployeeCredentials is the login input for badge-style sign-in with an
// employee code instead of an email address.
type EmployeeCredentials struct {
	EmployeeCode string `json:"employee_code"`
	Password     string `json:"password"`
}

func (c *EmployeeCredentials) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(c.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is required",
		})
	}

	if validator.IsEmpty(c.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(c.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Registration is the sign-up input.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *Registration) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long",
		})
	}
	if r.ConfirmPassword != r.Password {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_password",
			Message: "password and confirm_password do not match",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LoginResult is the outcome of Login or Register. Pending means the
// backend accepted the account but issued no tokens yet (registration
// awaiting approval), a valid state callers must branch on rather than
// an error.
type LoginResult struct {
	User    User
	Pending bool
	Message string
}

type loginResponse struct {
	tokenResponse
	User    wireUser `json:"user"`
	Message string   `json:"message"`
}

// Login authenticates and installs the session token. The refresh token
// arrives as an HTTP-only cookie and is captured by the cookie jar.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	var resp loginResponse
	err := c.post(ctx, "/api/v1/auth/login", creds, &resp, callOptions{
		noAuth:   true,
		fallback: invalidCredentialsMessage,
	})
	if err != nil {
		return nil, err
	}

	if err := c.sess.set(resp.AccessToken); err != nil {
		c.logger.Warn().Err(err).Msg("could not persist access token")
	}
	return &LoginResult{User: resp.User.normalize(), Message: resp.Message}, nil
}

// LoginWithEmployeeCode authenticates with an employee code instead of
// an email address. Everything else matches Login, including the refresh
// cookie and the deliberately vague failure message.
func (c *Client) LoginWithEmployeeCode(ctx context.Context, creds EmployeeCredentials) (*LoginResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	var resp loginResponse
	err := c.post(ctx, "/api/v1/auth/login/employee-code", creds, &resp, callOptions{
		noAuth:   true,
		fallback: "invalid employee code or password",
	})
	if err != nil {
		return nil, err
	}

	if err := c.sess.set(resp.AccessToken); err != nil {
		c.logger.Warn().Err(err).Msg("could not persist access token")
	}
	return &LoginResult{User: resp.User.normalize(), Message: resp.Message}, nil
}

// Register creates an account. Depending on backend policy the result is
// either a live session or a pending approval with no tokens.
func (c *Client) Register(ctx context.Context, reg Registration) (*LoginResult, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	var resp loginResponse
	err := c.post(ctx, "/api/v1/auth/register", reg, &resp, callOptions{noAuth: true})
	if err != nil {
		return nil, err
	}

	if resp.AccessToken == "" {
		return &LoginResult{User: resp.User.normalize(), Pending: true, Message: resp.Message}, nil
	}

	if err := c.sess.set(resp.AccessToken); err != nil {
		c.logger.Warn().Err(err).Msg("could not persist access token")
	}
	return &LoginResult{User: resp.User.normalize(), Message: resp.Message}, nil
}

// Logout revokes the session server-side and clears all local state.
// Local state is cleared even when the backend call fails: a logout must
// never leave a stale token behind.
func (c *Client) Logout(ctx context.Context) error {
	err := c.post(ctx, "/api/v1/auth/logout", nil, nil, callOptions{silent: true})
	c.sess.clear()
	if err != nil && !IsAuth(err) {
		return err
	}
	return nil
}

// CurrentUser restores the session at app boot. It retries on transient
// network failure so a flaky link does not drop an otherwise valid
// session, and it swallows auth failures into ErrNotLoggedIn since a
// silent probe must never toast the user.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var wire wireUser
	err := c.get(ctx, "/api/v1/users/me", &wire, callOptions{
		retry:  RetryPolicy{MaxRetries: 3, Delay: time.Second},
		silent: true,
	})
	if err != nil {
		if IsAuth(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	user := wire.normalize()
	return &user, nil
}

// ForgotPassword requests a reset link. The backend answers success for
// unknown addresses too, to prevent email enumeration.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if !validator.IsValidEmail(email) {
		return validator.ValidationErrors{{Field: "email", Message: "email must be a valid email address"}}
	}
	body := map[string]string{"email": email}
	return c.post(ctx, "/api/v1/auth/forgot-password", body, nil, callOptions{noAuth: true})
}

// ResetPassword completes a reset with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "password": newPassword}
	return c.post(ctx, "/api/v1/auth/reset-password", body, nil, callOptions{noAuth: true})
}

// ChangePassword changes the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{"old_password": oldPassword, "new_password": newPassword}
	return c.post(ctx, "/api/v1/auth/change-password", body, nil, callOptions{
		fallback: "password could not be changed",
	})
}
