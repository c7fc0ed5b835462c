package hris

import "context"

// Tickets lists the user's helpdesk tickets.
func (c *Client) Tickets(ctx context.Context) ([]Ticket, error) {
	var tickets []Ticket
	if err := c.get(ctx, "/api/v1/helpdesk/tickets", &tickets, callOptions{fallback: "could not load tickets"}); err != nil {
		return nil, err
	}
	return tickets, nil
}

// OpenTicket files a new helpdesk ticket.
func (c *Client) OpenTicket(ctx context.Context, subject, body string) (*Ticket, error) {
	var ticket Ticket
	in := map[string]string{"subject": subject, "body": body}
	if err := c.post(ctx, "/api/v1/helpdesk/tickets", in, &ticket, callOptions{fallback: "could not open ticket"}); err != nil {
		return nil, err
	}
	return &ticket, nil
}
