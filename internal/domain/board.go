package domain

import "time"

// TypeBoard is the only value the API emits for a board's type field.
const TypeBoard = "board"

// TypeUser is the only value the API emits for a user reference's type field.
const TypeUser = "user"

// UserRef identifies the user behind an audit or ownership field.
type UserRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// TeamRef identifies the team a board belongs to.
type TeamRef struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
}

// Links carries the hypermedia link set the API attaches to every resource.
type Links struct {
	Self    string `json:"self,omitempty"`
	Related string `json:"related,omitempty"`
}

// SharingPolicy controls who can access a board and how.
type SharingPolicy struct {
	Access                            string `json:"access,omitempty"`
	InviteToAccountAndBoardLinkAccess string `json:"inviteToAccountAndBoardLinkAccess,omitempty"`
	OrganizationAccess                string `json:"organizationAccess,omitempty"`
	TeamAccess                        string `json:"teamAccess,omitempty"`
}

// PermissionsPolicy controls what collaborators may do on a board.
type PermissionsPolicy struct {
	CollaborationToolsStartAccess string `json:"collaborationToolsStartAccess,omitempty"`
	CopyAccess                    string `json:"copyAccess,omitempty"`
	SharingAccess                 string `json:"sharingAccess,omitempty"`
}

// BoardPolicy groups the sharing and permission policies.
type BoardPolicy struct {
	PermissionsPolicy *PermissionsPolicy `json:"permissionsPolicy,omitempty"`
	SharingPolicy     *SharingPolicy     `json:"sharingPolicy,omitempty"`
}

// Board is the immutable board metadata captured at backup time.
type Board struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	CreatedBy   *UserRef     `json:"createdBy,omitempty"`
	ModifiedAt  time.Time    `json:"modifiedAt"`
	ModifiedBy  *UserRef     `json:"modifiedBy,omitempty"`
	Owner       *UserRef     `json:"owner,omitempty"`
	Policy      *BoardPolicy `json:"policy,omitempty"`
	Team        *TeamRef     `json:"team,omitempty"`
	Links       *Links       `json:"links,omitempty"`
	ViewLink    string       `json:"viewLink,omitempty"`
}

// BoardSummary is one row of the board listing produced by the lister.
type BoardSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	ViewLink  string    `json:"viewLink,omitempty"`
}
