package hris

import (
	"context"
	"net/url"
)

// PayrollSlips lists a user's payroll slips.
func (c *Client) PayrollSlips(ctx context.Context, userID string) ([]PayrollSlip, error) {
	var slips []PayrollSlip
	path := "/api/v1/payroll/slips?userId=" + url.QueryEscape(userID)
	if err := c.get(ctx, path, &slips, callOptions{fallback: "could not load payroll slips"}); err != nil {
		return nil, err
	}
	return slips, nil
}

// PayrollSlip fetches one slip.
func (c *Client) PayrollSlip(ctx context.Context, slipID string) (*PayrollSlip, error) {
	var slip PayrollSlip
	path := "/api/v1/payroll/slips/" + url.PathEscape(slipID)
	if err := c.get(ctx, path, &slip, callOptions{fallback: "could not load payroll slip"}); err != nil {
		return nil, err
	}
	return &slip, nil
}
