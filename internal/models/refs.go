package models

// The mirrored documents embed denormalized references to related upstream
// records instead of foreign keys. A ref is a cache of the id plus a few
// display fields captured at sync time; consumers that need consistency must
// re-resolve by id.

// ActorRef identifies a GitHub user or bot embedded in another document.
type ActorRef struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Type  string `json:"type"`
}

// OrgRef identifies the organization a member was synced under.
type OrgRef struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// RepoRef identifies the repository a commit, pull request or issue belongs to.
type RepoRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// CommitParentRef is one parent entry of a commit.
type CommitParentRef struct {
	SHA string `json:"sha"`
	URL string `json:"url"`
}

// LabelRef is a label attached to an issue or pull request.
type LabelRef struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PullRequestLinkRef marks an issue that is actually a pull request.
type PullRequestLinkRef struct {
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
}
