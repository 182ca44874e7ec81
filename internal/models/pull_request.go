package models

import "time"

// PullRequest mirrors one pull request, keyed by the upstream pull request id.
type PullRequest struct {
	ID                 int64      `json:"id"`
	Number             int        `json:"number"`
	State              string     `json:"state"`
	Title              string     `json:"title"`
	User               *ActorRef  `json:"user"`
	Body               *string    `json:"body"`
	Draft              bool       `json:"draft"`
	MergedAt           *time.Time `json:"merged_at"`
	MergeCommitSHA     *string    `json:"merge_commit_sha"`
	Assignee           *ActorRef  `json:"assignee"`
	Assignees          []ActorRef `json:"assignees"`
	RequestedReviewers []ActorRef `json:"requested_reviewers"`
	Labels             []LabelRef `json:"labels"`
	Repository         RepoRef    `json:"repository"`
	GithubCreatedAt    *time.Time `json:"github_created_at"`
	GithubUpdatedAt    *time.Time `json:"github_updated_at"`
	ClosedAt           *time.Time `json:"closed_at"`
	LastSyncedAt       time.Time  `json:"last_synced_at"`
}
