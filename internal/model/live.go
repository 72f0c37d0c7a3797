package model

// Group is a node in the live TimeCamp group hierarchy.
type Group struct {
	ID       int    `json:"group_id"`
	ParentID int    `json:"parent_id"`
	Name     string `json:"name"`

	// Path is the breadcrumb relative to the configured root group, computed
	// by walking ParentID links. Empty for the root group itself.
	Path string `json:"-"`
}

// User is a live TimeCamp user as read back from the API.
type User struct {
	ID              int    `json:"user_id"`
	Email           string `json:"email"`
	AdditionalEmail string `json:"additional_email"`
	Name            string `json:"display_name"`
	ExternalID      string `json:"external_id"`
	GroupID         int    `json:"group_id"`
	RoleID          int    `json:"role_id"`
	Enabled         bool   `json:"-"`
	AddedManually   bool   `json:"-"`
}

// Role returns the live user's role as the three-valued enum, using the
// same table the prepare engine uses for Person.RoleID.
func (u User) Role() Role {
	r, _ := RoleFromID(u.RoleID)
	return r
}
