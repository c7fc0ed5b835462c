package hris

import (
	"context"
	"net/url"
)

// Notices lists the user's in-app notifications. This endpoint is polled
// in the background, which is exactly why failure notifications are
// deduplicated by endpoint: an offline hour should produce one toast,
// not sixty.
func (c *Client) Notices(ctx context.Context) ([]Notice, error) {
	var notices []Notice
	if err := c.get(ctx, "/api/v1/notifications", &notices, callOptions{fallback: "could not load notifications"}); err != nil {
		return nil, err
	}
	return notices, nil
}

// MarkNoticeRead marks one notification as read.
func (c *Client) MarkNoticeRead(ctx context.Context, noticeID string) error {
	path := "/api/v1/notifications/" + url.PathEscape(noticeID) + "/read"
	return c.put(ctx, path, nil, nil, callOptions{silent: true})
}
