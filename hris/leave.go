package hris

import (
	"context"
	"net/url"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/validator"
)

var leaveTypes = []string{"sick", "casual", "vacation", "unpaid"}

// LeaveRequest is the input for filing a leave.
type LeaveRequest struct {
	Type      string    `json:"type"`
	StartDate time.Time `json:"-"`
	EndDate   time.Time `json:"-"`
	Reason    string    `json:"reason"`
}

func (r *LeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Type, leaveTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of sick, casual, vacation, unpaid",
		})
	}
	if r.StartDate.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	}
	if r.EndDate.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	}
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LeavesByUser lists a user's leave requests, all statuses.
func (c *Client) LeavesByUser(ctx context.Context, userID string) ([]Leave, error) {
	var wire []wireLeave
	path := "/api/v1/leaves?userId=" + url.QueryEscape(userID)
	if err := c.get(ctx, path, &wire, callOptions{fallback: "could not load leaves"}); err != nil {
		return nil, err
	}
	return normalizeLeaves(wire), nil
}

// RequestLeave files a new leave request. It comes back in pending state.
func (c *Client) RequestLeave(ctx context.Context, req LeaveRequest) (*Leave, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	in := map[string]string{
		"type":       req.Type,
		"start_date": req.StartDate.Format("2006-01-02"),
		"end_date":   req.EndDate.Format("2006-01-02"),
		"reason":     req.Reason,
	}
	var wire wireLeave
	if err := c.post(ctx, "/api/v1/leaves", in, &wire, callOptions{fallback: "could not submit leave request"}); err != nil {
		return nil, err
	}
	leave := wire.normalize()
	return &leave, nil
}

// ApproveLeave approves a pending leave (admin).
func (c *Client) ApproveLeave(ctx context.Context, leaveID string) error {
	path := "/api/v1/leaves/" + url.PathEscape(leaveID) + "/approve"
	return c.put(ctx, path, nil, nil, callOptions{fallback: "could not approve leave"})
}

// RejectLeave rejects a pending leave with a reason (admin).
func (c *Client) RejectLeave(ctx context.Context, leaveID, reason string) error {
	path := "/api/v1/leaves/" + url.PathEscape(leaveID) + "/reject"
	return c.put(ctx, path, map[string]string{"reason": reason}, nil, callOptions{fallback: "could not reject leave"})
}

// Holidays lists the company-wide holiday calendar.
func (c *Client) Holidays(ctx context.Context) ([]Holiday, error) {
	var wire []wireHoliday
	if err := c.get(ctx, "/api/v1/holidays", &wire, callOptions{fallback: "could not load holidays"}); err != nil {
		return nil, err
	}
	return normalizeHolidays(wire), nil
}
