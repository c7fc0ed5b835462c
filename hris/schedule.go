package hris

import (
	"context"
	"net/url"
)

// Shifts lists the company's shift definitions.
func (c *Client) Shifts(ctx context.Context) ([]Shift, error) {
	var shifts []Shift
	if err := c.get(ctx, "/api/v1/shifts", &shifts, callOptions{fallback: "could not load shifts"}); err != nil {
		return nil, err
	}
	return shifts, nil
}

// AssignShift assigns a user to a shift (admin).
func (c *Client) AssignShift(ctx context.Context, userID, shiftID string) error {
	path := "/api/v1/shifts/" + url.PathEscape(shiftID) + "/assign"
	return c.post(ctx, path, map[string]string{"user_id": userID}, nil, callOptions{fallback: "could not assign shift"})
}
