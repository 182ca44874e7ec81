package models

import "time"

// Integration holds the GitHub connection of one local tenant. At most one
// row exists per user id; it is created on successful authorization, deleted
// (together with all mirrored data) on removal, and its last_synced_at is
// stamped once per completed full sync.
type Integration struct {
	UserID         string     `json:"user_id"`
	GithubUsername string     `json:"github_username"`
	AccessToken    string     `json:"-"`
	IsConnected    bool       `json:"is_connected"`
	ConnectedAt    time.Time  `json:"connected_at"`
	LastSyncedAt   *time.Time `json:"last_synced_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewIntegration creates a connected integration for a tenant
func NewIntegration(userID, githubUsername, accessToken string) *Integration {
	now := time.Now()
	return &Integration{
		UserID:         userID,
		GithubUsername: githubUsername,
		AccessToken:    accessToken,
		IsConnected:    true,
		ConnectedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
