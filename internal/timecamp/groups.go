package timecamp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hrsync/tcsync/internal/httpclient"
	"github.com/hrsync/tcsync/internal/model"
)

// GetGroups returns every live group under the configured root, with Path
// computed by walking parent_id links. Groups outside the root's subtree
// are omitted.
func (c *Client) GetGroups(ctx context.Context) ([]model.Group, error) {
	var raw []rawGroup
	if err := c.call(ctx, httpclient.Request{Method: http.MethodGet, URL: c.url("/group")}, &raw); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	byID := make(map[int]rawGroup, len(raw))
	for _, g := range raw {
		byID[toInt(g.GroupID)] = g
	}

	groups := make([]model.Group, 0, len(raw))
	for _, g := range raw {
		id := toInt(g.GroupID)
		parentID := toInt(g.ParentID)
		path, underRoot := groupPath(id, byID, c.rootGroupID)
		if !underRoot {
			continue
		}
		groups = append(groups, model.Group{
			ID:       id,
			ParentID: parentID,
			Name:     g.Name,
			Path:     path,
		})
	}
	return groups, nil
}

// groupPath walks parent_id links from id up to rootID, building the
// breadcrumb root-most segment first. underRoot is false if the walk never
// reaches rootID (the group lives outside the managed subtree) or if a
// cycle is detected.
func groupPath(id int, byID map[int]rawGroup, rootID int) (path string, underRoot bool) {
	if id == rootID {
		return "", true
	}

	var segments []string
	visited := map[int]bool{}
	cur := id
	for {
		if visited[cur] {
			return "", false
		}
		visited[cur] = true

		g, ok := byID[cur]
		if !ok {
			return "", false
		}
		segments = append([]string{g.Name}, segments...)

		parent := toInt(g.ParentID)
		if parent == rootID {
			return joinSegments(segments), true
		}
		if parent == 0 || parent == cur {
			return "", false
		}
		cur = parent
	}
}

func joinSegments(segs []string) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}

// AddGroup creates a group under parentID and returns its new id. Per
// spec.md §4.C3, HTTP 403 on this specific endpoint is treated as
// potentially transient: internal/httpclient retries it via
// RetryableStatus, but only when the response body matches the
// rate-limit shape (SPEC_FULL.md Decision D2) — a genuine permission
// error on this endpoint still fails fast.
func (c *Client) AddGroup(ctx context.Context, name string, parentID int) (int, error) {
	body := map[string]any{
		"name":      name,
		"parent_id": parentID,
	}
	var resp struct {
		GroupID any `json:"group_id"`
	}

	req := httpclient.Request{
		Method:          http.MethodPost,
		URL:             c.url("/group"),
		Body:            body,
		RetryableStatus: map[int]bool{http.StatusForbidden: true},
	}
	if err := c.call(ctx, req, &resp); err != nil {
		return 0, fmt.Errorf("failed to add group %q under %d: %w", name, parentID, err)
	}
	return toInt(resp.GroupID), nil
}

// SetGroupManager sets or clears userID as a manager of groupID. Idempotent.
func (c *Client) SetGroupManager(ctx context.Context, groupID, userID int, on bool) error {
	body := map[string]any{
		"group_id": groupID,
		"user_id":  userID,
		"manager":  on,
	}
	if err := c.call(ctx, httpclient.Request{Method: http.MethodPut, URL: c.url("/group/manager"), Body: body}, nil); err != nil {
		return fmt.Errorf("failed to set group manager (group=%d user=%d on=%v): %w", groupID, userID, on, err)
	}
	return nil
}
