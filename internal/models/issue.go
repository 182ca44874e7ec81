package models

import "time"

// Issue mirrors one issue, keyed by the upstream issue id. GitHub's issue
// listing includes pull requests; those rows carry a PullRequest link ref.
type Issue struct {
	ID              int64               `json:"id"`
	Number          int                 `json:"number"`
	State           string              `json:"state"`
	Title           string              `json:"title"`
	User            *ActorRef           `json:"user"`
	Body            *string             `json:"body"`
	Locked          bool                `json:"locked"`
	Comments        int                 `json:"comments"`
	Assignee        *ActorRef           `json:"assignee"`
	Assignees       []ActorRef          `json:"assignees"`
	Labels          []LabelRef          `json:"labels"`
	PullRequest     *PullRequestLinkRef `json:"pull_request"`
	Repository      RepoRef             `json:"repository"`
	GithubCreatedAt *time.Time          `json:"github_created_at"`
	GithubUpdatedAt *time.Time          `json:"github_updated_at"`
	ClosedAt        *time.Time          `json:"closed_at"`
	LastSyncedAt    time.Time           `json:"last_synced_at"`
}

// IssueChangelogEntry mirrors one issue timeline event, keyed by the upstream
// event id. The parent issue is referenced by id only.
type IssueChangelogEntry struct {
	ID              int64      `json:"id"`
	IssueID         int64      `json:"issue_id"`
	Event           string     `json:"event"`
	CommitID        *string    `json:"commit_id"`
	CommitURL       *string    `json:"commit_url"`
	Actor           *ActorRef  `json:"actor"`
	Label           *LabelRef  `json:"label"`
	Assignee        *ActorRef  `json:"assignee"`
	Assigner        *ActorRef  `json:"assigner"`
	GithubCreatedAt *time.Time `json:"github_created_at"`
	LastSyncedAt    time.Time  `json:"last_synced_at"`
}
