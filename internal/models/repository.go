package models

import "time"

// Repository mirrors one GitHub repository, keyed by the upstream repository
// id. The owner is an embedded ref; ownership linkage to an organization is
// by matching login, not by foreign key.
type Repository struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	FullName        string     `json:"full_name"`
	Private         bool       `json:"private"`
	Owner           ActorRef   `json:"owner"`
	Description     *string    `json:"description"`
	Fork            bool       `json:"fork"`
	Homepage        *string    `json:"homepage"`
	Size            int        `json:"size"`
	StargazersCount int        `json:"stargazers_count"`
	WatchersCount   int        `json:"watchers_count"`
	Language        *string    `json:"language"`
	ForksCount      int        `json:"forks_count"`
	Archived        bool       `json:"archived"`
	Disabled        bool       `json:"disabled"`
	OpenIssuesCount int        `json:"open_issues_count"`
	Topics          []string   `json:"topics"`
	Visibility      *string    `json:"visibility"`
	DefaultBranch   *string    `json:"default_branch"`
	GithubCreatedAt *time.Time `json:"github_created_at"`
	GithubUpdatedAt *time.Time `json:"github_updated_at"`
	GithubPushedAt  *time.Time `json:"github_pushed_at"`
	LastSyncedAt    time.Time  `json:"last_synced_at"`
}

// Ref returns the denormalized reference embedded into this repository's
// commits, pull requests and issues.
func (r *Repository) Ref() RepoRef {
	return RepoRef{ID: r.ID, Name: r.Name, FullName: r.FullName}
}
