package models

import "time"

// Commit mirrors one commit, keyed by its SHA. The SHA is treated as unique
// across the whole store; a commit reachable from two repositories keeps the
// repository ref of whichever sync wrote it last.
type Commit struct {
	SHA            string            `json:"sha"`
	Message        string            `json:"message"`
	AuthorName     string            `json:"author_name"`
	AuthorEmail    string            `json:"author_email"`
	AuthorDate     *time.Time        `json:"author_date"`
	CommitterName  string            `json:"committer_name"`
	CommitterEmail string            `json:"committer_email"`
	CommitterDate  *time.Time        `json:"committer_date"`
	Author         *ActorRef         `json:"author"`    // nil when no linked GitHub account
	Committer      *ActorRef         `json:"committer"` // nil when no linked GitHub account
	Parents        []CommitParentRef `json:"parents"`
	Repository     RepoRef           `json:"repository"`
	HTMLURL        string            `json:"html_url"`
	LastSyncedAt   time.Time         `json:"last_synced_at"`
}
