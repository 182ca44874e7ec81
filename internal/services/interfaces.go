package services

import (
	"context"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/google/go-github/v57/github"
)

// GithubAPI is the upstream surface the sync engine consumes. It is
// implemented by githubclient.Client; tests substitute fakes.
type GithubAPI interface {
	GetAuthenticatedUser(ctx context.Context) (*github.User, error)
	ListUserOrganizations(ctx context.Context) ([]*github.Organization, error)
	ListUserRepositories(ctx context.Context, page, perPage int) ([]*github.Repository, error)
	GetOrganization(ctx context.Context, login string) (*github.Organization, error)
	ListOrganizationMembers(ctx context.Context, login string, page, perPage int) ([]*github.User, error)
	ListOrganizationRepositories(ctx context.Context, login string, page, perPage int) ([]*github.Repository, error)
	GetRepository(ctx context.Context, owner, name string) (*github.Repository, error)
	ListRepositoryCommits(ctx context.Context, owner, name string, perPage int) ([]*github.RepositoryCommit, error)
	ListRepositoryPullRequests(ctx context.Context, owner, name string) ([]*github.PullRequest, error)
	ListRepositoryIssues(ctx context.Context, owner, name string) ([]*github.Issue, error)
	ListIssueEvents(ctx context.Context, owner, name string, number int) ([]*github.IssueEvent, error)
}

// ClientFactory builds an authenticated upstream client for a tenant's token
type ClientFactory func(token string) GithubAPI

// Narrow store surfaces the engine writes through, satisfied by the concrete
// repositories.

type OrganizationStore interface {
	Upsert(org *models.Organization) error
}

type OrganizationMemberStore interface {
	Upsert(member *models.OrganizationMember) error
}

type RepositoryStore interface {
	Upsert(repo *models.Repository) error
}

type CommitStore interface {
	Upsert(commit *models.Commit) error
}

type PullRequestStore interface {
	Upsert(pr *models.PullRequest) error
}

type IssueStore interface {
	Upsert(issue *models.Issue) error
}

type IssueChangelogStore interface {
	Upsert(entry *models.IssueChangelogEntry) error
}

type IntegrationStore interface {
	GetByUserID(userID string) (*models.Integration, error)
	StampLastSynced(userID string, syncedAt time.Time) error
}
