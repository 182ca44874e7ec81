package models

import "time"

// Organization mirrors one GitHub organization profile, keyed by the
// upstream organization id.
type Organization struct {
	ID                      int64      `json:"id"`
	Login                   string     `json:"login"`
	URL                     string     `json:"url"`
	Description             *string    `json:"description"`
	Name                    *string    `json:"name"`
	Company                 *string    `json:"company"`
	Blog                    *string    `json:"blog"`
	Location                *string    `json:"location"`
	Email                   *string    `json:"email"`
	TwitterUsername         *string    `json:"twitter_username"`
	IsVerified              bool       `json:"is_verified"`
	HasOrganizationProjects bool       `json:"has_organization_projects"`
	HasRepositoryProjects   bool       `json:"has_repository_projects"`
	PublicRepos             int        `json:"public_repos"`
	PublicGists             int        `json:"public_gists"`
	Followers               int        `json:"followers"`
	Following               int        `json:"following"`
	GithubCreatedAt         *time.Time `json:"github_created_at"`
	GithubUpdatedAt         *time.Time `json:"github_updated_at"`
	LastSyncedAt            time.Time  `json:"last_synced_at"`
}

// OrganizationMember mirrors one member of an organization, keyed by the
// upstream user id. The organization identity is embedded, not foreign-keyed;
// re-syncing the same member under another organization overwrites the ref.
type OrganizationMember struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	Organization OrgRef    `json:"organization"`
	Role         *string   `json:"role"`
	State        *string   `json:"state"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}
