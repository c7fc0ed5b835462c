package hris

import (
	"context"
	"net/url"
)

// Users lists all users (admin).
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var wire []wireUser
	if err := c.get(ctx, "/api/v1/users", &wire, callOptions{fallback: "could not load users"}); err != nil {
		return nil, err
	}
	users := make([]User, len(wire))
	for i, w := range wire {
		users[i] = w.normalize()
	}
	return users, nil
}

// NewUser is the input for admin-provisioned accounts. The backend
// approves these immediately, without the register-and-wait flow.
type NewUser struct {
	Name         string
	Email        string
	Password     string
	Role         string
	EmployeeCode string
}

// CreateUser provisions an account directly (admin).
func (c *Client) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	body := map[string]any{
		"name":        in.Name,
		"email":       in.Email,
		"password":    in.Password,
		"role":        in.Role,
		"employee_id": in.EmployeeCode,
	}
	var wire wireUser
	if err := c.post(ctx, "/api/v1/users", body, &wire, callOptions{fallback: "could not create user"}); err != nil {
		return nil, err
	}
	user := wire.normalize()
	return &user, nil
}

// UserByID fetches a single user.
func (c *Client) UserByID(ctx context.Context, userID string) (*User, error) {
	var wire wireUser
	path := "/api/v1/users/" + url.PathEscape(userID)
	if err := c.get(ctx, path, &wire, callOptions{fallback: "could not load user"}); err != nil {
		return nil, err
	}
	user := wire.normalize()
	return &user, nil
}

// UpdateUser updates profile fields on a user (admin, or self-service
// depending on backend policy).
func (c *Client) UpdateUser(ctx context.Context, userID string, fields map[string]any) (*User, error) {
	var wire wireUser
	path := "/api/v1/users/" + url.PathEscape(userID)
	if err := c.put(ctx, path, fields, &wire, callOptions{fallback: "could not update user"}); err != nil {
		return nil, err
	}
	user := wire.normalize()
	return &user, nil
}

// DeleteUser removes a user (admin).
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	path := "/api/v1/users/" + url.PathEscape(userID)
	return c.del(ctx, path, callOptions{fallback: "could not delete user"})
}
