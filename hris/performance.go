package hris

import (
	"context"
	"net/url"
)

// Reviews lists performance reviews for a user.
func (c *Client) Reviews(ctx context.Context, userID string) ([]Review, error) {
	var reviews []Review
	path := "/api/v1/performance/reviews?userId=" + url.QueryEscape(userID)
	if err := c.get(ctx, path, &reviews, callOptions{fallback: "could not load reviews"}); err != nil {
		return nil, err
	}
	return reviews, nil
}

// SubmitReview files a review for a user (reviewer role).
func (c *Client) SubmitReview(ctx context.Context, review Review) (*Review, error) {
	var created Review
	in := map[string]any{
		"user_id": review.UserID,
		"period":  review.Period,
		"score":   review.Score,
		"summary": review.Summary,
	}
	if err := c.post(ctx, "/api/v1/performance/reviews", in, &created, callOptions{fallback: "could not submit review"}); err != nil {
		return nil, err
	}
	return &created, nil
}
