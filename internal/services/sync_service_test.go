package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/alimgiray/ghmirror/internal/githubclient"
	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
)

type syncFixture struct {
	api          *fakeAPI
	integrations *memIntegrationStore
	orgs         *memOrgStore
	members      *memMemberStore
	repos        *memRepoStore
	commits      *memCommitStore
	prs          *memPRStore
	issues       *memIssueStore
	changelog    *memChangelogStore
	service      *SyncService
}

func newSyncFixture(api *fakeAPI) *syncFixture {
	f := &syncFixture{
		api:       api,
		orgs:      newMemOrgStore(),
		members:   newMemMemberStore(),
		repos:     newMemRepoStore(),
		commits:   newMemCommitStore(),
		prs:       newMemPRStore(),
		issues:    newMemIssueStore(),
		changelog: newMemChangelogStore(),
	}
	f.integrations = &memIntegrationStore{
		integration: models.NewIntegration("user-1", "jane", "token"),
	}

	initializer := NewInitializerService(
		f.orgs, f.members, f.repos, f.commits, f.prs, f.issues, f.changelog,
	)
	repoSync := NewRepositorySyncService(f.repos, f.commits, f.prs, f.issues, f.changelog)
	orgSync := NewOrganizationSyncService(f.orgs, f.members, repoSync, 2)
	f.service = NewSyncService(
		f.integrations, initializer, orgSync, repoSync,
		func(token string) GithubAPI { return api }, 2,
	)
	return f
}

func TestRunFullSync(t *testing.T) {
	t.Run("Mirrors organizations, members, repositories and their contents", func(t *testing.T) {
		api := &fakeAPI{
			orgs: []*github.Organization{ghOrg(301, "acme")},
			orgMembers: map[string][]*github.User{
				"acme": {ghUser(1, "alice"), ghUser(2, "bob"), ghUser(3, "carol")},
			},
			orgRepos: map[string][]*github.Repository{
				"acme": {ghRepo(11, "acme/widgets")},
			},
			userRepos: []*github.Repository{ghRepo(31, "jane/blog")},
			repos: map[string]*github.Repository{
				"acme/widgets": ghRepo(11, "acme/widgets"),
				"jane/blog":    ghRepo(31, "jane/blog"),
			},
			commits: map[string][]*github.RepositoryCommit{
				"acme/widgets": {ghCommit("abc"), ghCommit("def")},
			},
			prs: map[string][]*github.PullRequest{
				"acme/widgets": {ghPR(101, 1)},
			},
			issues: map[string][]*github.Issue{
				"acme/widgets": {ghIssue(201, 2)},
			},
			events: map[string][]*github.IssueEvent{
				"acme/widgets#2": {ghEvent(401, "closed")},
			},
		}
		f := newSyncFixture(api)

		summary, err := f.service.RunFullSync(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.OrganizationsSeen)
		assert.Equal(t, 2, summary.RepositoriesSeen)
		assert.Equal(t, 0, summary.RepositoriesFailed)

		assert.Contains(t, f.orgs.orgs, int64(301))
		assert.Len(t, f.members.members, 4) // 3 members + sentinel
		assert.Contains(t, f.repos.repos, int64(11))
		assert.Contains(t, f.repos.repos, int64(31))
		assert.Contains(t, f.commits.commits, "abc")
		assert.Contains(t, f.prs.prs, int64(101))
		assert.Contains(t, f.issues.issues, int64(201))
		assert.Contains(t, f.changelog.entries, int64(401))

		assert.Len(t, f.integrations.stamps, 1)
	})

	t.Run("A failing repository never stops its siblings", func(t *testing.T) {
		api := &fakeAPI{
			orgs: []*github.Organization{ghOrg(301, "acme"), ghOrg(302, "beta")},
			orgRepos: map[string][]*github.Repository{
				"acme": {ghRepo(11, "acme/r1"), ghRepo(12, "acme/r2")},
				"beta": {ghRepo(21, "beta/r1")},
			},
			repos: map[string]*github.Repository{
				"acme/r1": ghRepo(11, "acme/r1"),
				"acme/r2": ghRepo(12, "acme/r2"),
				"beta/r1": ghRepo(21, "beta/r1"),
			},
			commitsErr: map[string]error{
				"acme/r1": errors.New("boom"),
			},
			commits: map[string][]*github.RepositoryCommit{
				"acme/r2": {ghCommit("abc")},
				"beta/r1": {ghCommit("def")},
			},
			prs: map[string][]*github.PullRequest{
				"acme/r1": {ghPR(101, 1)},
			},
		}
		f := newSyncFixture(api)

		summary, err := f.service.RunFullSync(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 2, summary.OrganizationsSeen)
		assert.Equal(t, 3, summary.RepositoriesSeen)
		assert.Equal(t, 1, summary.RepositoriesFailed)

		// The failing repository's other branches still completed
		assert.Contains(t, f.prs.prs, int64(101))
		// Both organizations were walked despite the failure in the first
		assert.Contains(t, f.commits.commits, "def")
		assert.Len(t, f.integrations.stamps, 1)
	})

	t.Run("An empty repository is skipped, not failed", func(t *testing.T) {
		api := &fakeAPI{
			orgs: []*github.Organization{ghOrg(301, "acme")},
			orgRepos: map[string][]*github.Repository{
				"acme": {ghRepo(11, "acme/empty")},
			},
			repos: map[string]*github.Repository{
				"acme/empty": ghRepo(11, "acme/empty"),
			},
			commitsErr: map[string]error{
				"acme/empty": &githubclient.FetchError{StatusCode: http.StatusConflict, Body: "Git Repository is empty."},
			},
		}
		f := newSyncFixture(api)

		summary, err := f.service.RunFullSync(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.RepositoriesSeen)
		assert.Equal(t, 0, summary.RepositoriesFailed)
	})

	t.Run("Records without identity are skipped without failing the batch", func(t *testing.T) {
		api := &fakeAPI{
			userRepos: []*github.Repository{ghRepo(31, "jane/blog")},
			repos: map[string]*github.Repository{
				"jane/blog": ghRepo(31, "jane/blog"),
			},
			commits: map[string][]*github.RepositoryCommit{
				"jane/blog": {ghCommit("good"), {}},
			},
		}
		f := newSyncFixture(api)

		summary, err := f.service.RunFullSync(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 0, summary.RepositoriesFailed)
		assert.Contains(t, f.commits.commits, "good")
		assert.Len(t, f.commits.commits, 2) // good + sentinel
	})

	t.Run("Organization listing failure does not stop the walk", func(t *testing.T) {
		api := &fakeAPI{
			orgsErr:   errors.New("upstream down"),
			userRepos: []*github.Repository{ghRepo(31, "jane/blog")},
			repos: map[string]*github.Repository{
				"jane/blog": ghRepo(31, "jane/blog"),
			},
		}
		f := newSyncFixture(api)

		summary, err := f.service.RunFullSync(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 0, summary.OrganizationsSeen)
		assert.Equal(t, 1, summary.RepositoriesSeen)
		assert.Len(t, f.integrations.stamps, 1)
	})

	t.Run("Missing integration is fatal", func(t *testing.T) {
		f := newSyncFixture(&fakeAPI{})
		f.integrations.integration = nil

		_, err := f.service.RunFullSync(context.Background(), "user-1")

		assert.ErrorIs(t, err, ErrNotConnected)
		assert.Empty(t, f.integrations.stamps)
	})

	t.Run("Disconnected integration is fatal", func(t *testing.T) {
		f := newSyncFixture(&fakeAPI{})
		f.integrations.integration.IsConnected = false

		_, err := f.service.RunFullSync(context.Background(), "user-1")

		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("Initialization store failure is fatal", func(t *testing.T) {
		f := newSyncFixture(&fakeAPI{})
		f.orgs.failUpsert = true

		_, err := f.service.RunFullSync(context.Background(), "user-1")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotConnected)
		assert.Empty(t, f.integrations.stamps)
	})
}

func TestUnitSyncs(t *testing.T) {
	t.Run("Single organization sync", func(t *testing.T) {
		api := &fakeAPI{
			orgs: []*github.Organization{ghOrg(301, "acme")},
			orgRepos: map[string][]*github.Repository{
				"acme": {ghRepo(11, "acme/widgets")},
			},
			repos: map[string]*github.Repository{
				"acme/widgets": ghRepo(11, "acme/widgets"),
			},
		}
		f := newSyncFixture(api)

		result, err := f.service.SyncOrganization(context.Background(), "user-1", "acme")

		assert.NoError(t, err)
		assert.Equal(t, 1, result.RepositoriesSeen)
		assert.Contains(t, f.orgs.orgs, int64(301))
		// Unit syncs do not stamp the full-sync time
		assert.Empty(t, f.integrations.stamps)
	})

	t.Run("Single repository sync", func(t *testing.T) {
		api := &fakeAPI{
			repos: map[string]*github.Repository{
				"acme/widgets": ghRepo(11, "acme/widgets"),
			},
			commits: map[string][]*github.RepositoryCommit{
				"acme/widgets": {ghCommit("abc")},
			},
		}
		f := newSyncFixture(api)

		err := f.service.SyncRepository(context.Background(), "user-1", "acme/widgets")

		assert.NoError(t, err)
		assert.Contains(t, f.repos.repos, int64(11))
		assert.Contains(t, f.commits.commits, "abc")
	})

	t.Run("Unit syncs require a connected integration", func(t *testing.T) {
		f := newSyncFixture(&fakeAPI{})
		f.integrations.integration = nil

		_, err := f.service.SyncOrganization(context.Background(), "user-1", "acme")
		assert.ErrorIs(t, err, ErrNotConnected)

		err = f.service.SyncRepository(context.Background(), "user-1", "acme/widgets")
		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("Changelog fetch failure fails the issues branch", func(t *testing.T) {
		api := &fakeAPI{
			repos: map[string]*github.Repository{
				"acme/widgets": ghRepo(11, "acme/widgets"),
			},
			issues: map[string][]*github.Issue{
				"acme/widgets": {ghIssue(201, 2)},
			},
			eventsErr: map[string]error{
				"acme/widgets#2": errors.New("boom"),
			},
			commits: map[string][]*github.RepositoryCommit{
				"acme/widgets": {ghCommit("abc")},
			},
		}
		f := newSyncFixture(api)

		err := f.service.SyncRepository(context.Background(), "user-1", "acme/widgets")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "issues")
		// The issue itself was stored before its changelog failed, and the
		// sibling commits branch completed.
		assert.Contains(t, f.issues.issues, int64(201))
		assert.Contains(t, f.commits.commits, "abc")
	})
}
