package timecamp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hrsync/tcsync/internal/httpclient"
	"github.com/hrsync/tcsync/internal/model"
)

// GetUsers returns every live user, with Enabled and AddedManually filled in
// by merging three sub-queries: the user listing, the enabled-status
// listing, and the per-user settings listing. A user id appearing in none
// of the three is treated as non-existent and omitted, per spec.md §4.C3.
func (c *Client) GetUsers(ctx context.Context) ([]model.User, error) {
	var rawUsers []rawUser
	if err := c.call(ctx, httpclient.Request{Method: http.MethodGet, URL: c.url("/users")}, &rawUsers); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var statusRows []struct {
		UserID  any  `json:"user_id"`
		Enabled bool `json:"enabled"`
	}
	if err := c.call(ctx, httpclient.Request{Method: http.MethodGet, URL: c.url("/users/status")}, &statusRows); err != nil {
		return nil, fmt.Errorf("failed to list user status: %w", err)
	}
	enabledByID := make(map[int]bool, len(statusRows))
	for _, r := range statusRows {
		enabledByID[toInt(r.UserID)] = r.Enabled
	}

	var settingRows []struct {
		UserID any    `json:"user_id"`
		Name   string `json:"name"`
		Value  string `json:"value"`
	}
	if err := c.call(ctx, httpclient.Request{Method: http.MethodGet, URL: c.url("/users/settings")}, &settingRows); err != nil {
		return nil, fmt.Errorf("failed to list user settings: %w", err)
	}
	addedManuallyByID := make(map[int]bool, len(settingRows))
	for _, r := range settingRows {
		if r.Name == "added_manually" && (r.Value == "1" || r.Value == "true") {
			addedManuallyByID[toInt(r.UserID)] = true
		}
	}

	users := make([]model.User, 0, len(rawUsers))
	for _, ru := range rawUsers {
		id := toInt(ru.UserID)
		enabled, known := enabledByID[id]
		if !known {
			// Not present in the status listing — not present in any of the
			// three sub-queries means it does not really exist; since it IS
			// present in the main listing, default to enabled=true rather
			// than silently dropping a real user.
			enabled = true
		}
		users = append(users, model.User{
			ID:              id,
			Email:           ru.Email,
			AdditionalEmail: ru.AdditionalEmail,
			Name:            ru.DisplayName,
			ExternalID:      ru.ExternalID,
			GroupID:         toInt(ru.GroupID),
			RoleID:          toInt(ru.RoleID),
			Enabled:         enabled,
			AddedManually:   addedManuallyByID[id],
		})
	}
	return users, nil
}

// AddUser creates a user and returns its new id. The request sets the flag
// that suppresses TimeCamp's "welcome email" invitation, per spec.md §6.4.
func (c *Client) AddUser(ctx context.Context, email, name string, groupID int) (int, error) {
	body := map[string]any{
		"email":             email,
		"display_name":      name,
		"group_id":          groupID,
		"ignore_notification": true,
	}
	var resp struct {
		UserID any `json:"user_id"`
	}
	if err := c.call(ctx, httpclient.Request{Method: http.MethodPost, URL: c.url("/user"), Body: body}, &resp); err != nil {
		return 0, fmt.Errorf("failed to add user %q: %w", email, err)
	}
	return toInt(resp.UserID), nil
}

// UserUpdate is a partial update — only non-nil fields are written, matching
// the API's PATCH-like semantics (spec.md §4.C3).
type UserUpdate struct {
	Name            *string
	Email           *string
	AdditionalEmail *string
	ExternalID      *string
	RoleID          *int
	GroupID         *int
	Active          *bool
}

// UpdateUser applies a partial update to the user with the given id.
func (c *Client) UpdateUser(ctx context.Context, userID int, fields UserUpdate) error {
	body := map[string]any{"user_id": userID}
	if fields.Name != nil {
		body["display_name"] = *fields.Name
	}
	if fields.Email != nil {
		body["email"] = *fields.Email
	}
	if fields.AdditionalEmail != nil {
		body["additional_email"] = *fields.AdditionalEmail
	}
	if fields.ExternalID != nil {
		body["external_id"] = *fields.ExternalID
	}
	if fields.RoleID != nil {
		body["role_id"] = *fields.RoleID
	}
	if fields.GroupID != nil {
		body["group_id"] = *fields.GroupID
	}
	if fields.Active != nil {
		body["status"] = map[bool]string{true: "1", false: "0"}[*fields.Active]
	}

	if err := c.call(ctx, httpclient.Request{Method: http.MethodPut, URL: c.url("/user"), Body: body}, nil); err != nil {
		return fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	return nil
}

// SetUserSetting sets a single per-user setting — used to clear
// added_manually after a sync-driven update, per spec.md §4.C6.
func (c *Client) SetUserSetting(ctx context.Context, userID int, key, value string) error {
	body := map[string]any{
		"user_id": userID,
		"name":    key,
		"value":   value,
	}
	if err := c.call(ctx, httpclient.Request{Method: http.MethodPut, URL: c.url("/users/setting"), Body: body}, nil); err != nil {
		return fmt.Errorf("failed to set setting %q for user %d: %w", key, userID, err)
	}
	return nil
}
