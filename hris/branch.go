package hris

import (
	"context"
	"os"
	"strings"
	"sync"
)

// Branches lists the company's branches.
func (c *Client) Branches(ctx context.Context) ([]Branch, error) {
	var branches []Branch
	if err := c.get(ctx, "/api/v1/branches", &branches, callOptions{fallback: "could not load branches"}); err != nil {
		return nil, err
	}
	return branches, nil
}

// BranchCache is the read-through cache for the last branch the user
// selected, the one piece of UI state this client persists besides the
// token. It is best-effort: a broken cache file just means no preselected
// branch.
type BranchCache struct {
	mu   sync.Mutex
	path string
	id   string
	read bool
}

func NewBranchCache(path string) *BranchCache {
	return &BranchCache{path: path}
}

// Last returns the cached branch ID, reading the file once.
func (b *BranchCache) Last() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.read {
		if data, err := os.ReadFile(b.path); err == nil {
			b.id = strings.TrimSpace(string(data))
		}
		b.read = true
	}
	return b.id
}

// Select records a new selection and writes it through to disk.
func (b *BranchCache) Select(branchID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.id = branchID
	b.read = true
	_ = os.WriteFile(b.path, []byte(branchID), 0o600)
}
