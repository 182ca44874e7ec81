package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/alimgiray/ghmirror/pkg/database"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB opens an in-memory store with the real migrations applied. The
// pool is pinned to one connection so every query sees the same database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunSQLScripts(db, "../../migrations"))
	return db
}

func TestCommitRepository(t *testing.T) {
	repoRef := models.RepoRef{ID: 11, Name: "widgets", FullName: "acme/widgets"}

	t.Run("Upsert is idempotent and replaces fields", func(t *testing.T) {
		repo := NewCommitRepository(newTestDB(t))

		first := &models.Commit{
			SHA:        "abc123",
			Message:    "original message",
			AuthorName: "Jane",
			Repository: repoRef,
		}
		require.NoError(t, repo.Upsert(first))

		second := &models.Commit{
			SHA:        "abc123",
			Message:    "amended message",
			AuthorName: "Jane",
			Repository: repoRef,
		}
		require.NoError(t, repo.Upsert(second))

		stored, err := repo.GetBySHA("abc123")
		require.NoError(t, err)
		assert.Equal(t, "amended message", stored.Message)
		assert.Nil(t, stored.Author)
		assert.NotNil(t, stored.Parents)
		assert.Empty(t, stored.Parents)
		assert.False(t, stored.LastSyncedAt.IsZero())

		count, err := repo.CountByRepositoryID(repoRef.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Linked accounts and parents round trip", func(t *testing.T) {
		repo := NewCommitRepository(newTestDB(t))

		commit := &models.Commit{
			SHA:        "def456",
			Message:    "with refs",
			Author:     &models.ActorRef{Login: "jane", ID: 7, Type: "User"},
			Parents:    []models.CommitParentRef{{SHA: "abc123", URL: "https://example.com/abc123"}},
			Repository: repoRef,
		}
		require.NoError(t, repo.Upsert(commit))

		stored, err := repo.GetBySHA("def456")
		require.NoError(t, err)
		require.NotNil(t, stored.Author)
		assert.Equal(t, "jane", stored.Author.Login)
		assert.Nil(t, stored.Committer)
		require.Len(t, stored.Parents, 1)
		assert.Equal(t, "abc123", stored.Parents[0].SHA)
		assert.Equal(t, repoRef, stored.Repository)
	})
}

func TestPullRequestRepository(t *testing.T) {
	repoRef := models.RepoRef{ID: 11, Name: "widgets", FullName: "acme/widgets"}

	t.Run("Optional fields survive the round trip", func(t *testing.T) {
		repo := NewPullRequestRepository(newTestDB(t))

		body := "please review"
		pr := &models.PullRequest{
			ID:         101,
			Number:     4,
			State:      "open",
			Title:      "Add feature",
			User:       &models.ActorRef{Login: "jane", ID: 7, Type: "User"},
			Body:       &body,
			Labels:     []models.LabelRef{{ID: 1, Name: "bug", Color: "ff0000"}},
			Repository: repoRef,
		}
		require.NoError(t, repo.Upsert(pr))

		stored, err := repo.GetByID(101)
		require.NoError(t, err)
		assert.Equal(t, "Add feature", stored.Title)
		require.NotNil(t, stored.Body)
		assert.Equal(t, "please review", *stored.Body)
		require.Len(t, stored.Labels, 1)
		assert.Equal(t, "bug", stored.Labels[0].Name)
		assert.Nil(t, stored.Assignee)
		assert.NotNil(t, stored.Assignees)
		assert.Empty(t, stored.Assignees)
	})

	t.Run("Re-sync fully replaces the record", func(t *testing.T) {
		repo := NewPullRequestRepository(newTestDB(t))

		body := "first body"
		pr := &models.PullRequest{ID: 101, Number: 4, State: "open", Title: "Add feature", Body: &body, Repository: repoRef}
		require.NoError(t, repo.Upsert(pr))

		closed := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
		updated := &models.PullRequest{ID: 101, Number: 4, State: "closed", Title: "Add feature", ClosedAt: &closed, Repository: repoRef}
		require.NoError(t, repo.Upsert(updated))

		stored, err := repo.GetByID(101)
		require.NoError(t, err)
		assert.Equal(t, "closed", stored.State)
		assert.Nil(t, stored.Body) // the older body does not linger
		require.NotNil(t, stored.ClosedAt)
	})
}

func TestIntegrationRepository(t *testing.T) {
	t.Run("Lifecycle: connect, stamp, remove", func(t *testing.T) {
		repo := NewIntegrationRepository(newTestDB(t))

		integration := models.NewIntegration("user-1", "jane", "token")
		require.NoError(t, repo.Upsert(integration))

		stored, err := repo.GetByUserID("user-1")
		require.NoError(t, err)
		assert.Equal(t, "jane", stored.GithubUsername)
		assert.True(t, stored.IsConnected)
		assert.Nil(t, stored.LastSyncedAt)

		syncedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		require.NoError(t, repo.StampLastSynced("user-1", syncedAt))

		stored, err = repo.GetByUserID("user-1")
		require.NoError(t, err)
		require.NotNil(t, stored.LastSyncedAt)
		assert.True(t, stored.LastSyncedAt.Equal(syncedAt))

		require.NoError(t, repo.Delete("user-1"))
		_, err = repo.GetByUserID("user-1")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("Reconnecting replaces the existing row", func(t *testing.T) {
		repo := NewIntegrationRepository(newTestDB(t))

		require.NoError(t, repo.Upsert(models.NewIntegration("user-1", "jane", "old-token")))
		require.NoError(t, repo.Upsert(models.NewIntegration("user-1", "jane", "new-token")))

		stored, err := repo.GetByUserID("user-1")
		require.NoError(t, err)
		assert.Equal(t, "new-token", stored.AccessToken)
	})
}

func TestOrganizationMemberRepository(t *testing.T) {
	t.Run("The organization ref is embedded, not keyed", func(t *testing.T) {
		repo := NewOrganizationMemberRepository(newTestDB(t))

		member := &models.OrganizationMember{
			ID:           7,
			Login:        "jane",
			Organization: models.OrgRef{ID: 301, Login: "acme"},
		}
		require.NoError(t, repo.Upsert(member))

		// The same user synced under another organization overwrites the ref
		moved := &models.OrganizationMember{
			ID:           7,
			Login:        "jane",
			Organization: models.OrgRef{ID: 302, Login: "beta"},
		}
		require.NoError(t, repo.Upsert(moved))

		stored, err := repo.GetByID(7)
		require.NoError(t, err)
		assert.Equal(t, "beta", stored.Organization.Login)
	})
}

func TestIssueChangelogRepository(t *testing.T) {
	t.Run("Entries list by owning issue", func(t *testing.T) {
		repo := NewIssueChangelogRepository(newTestDB(t))

		base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		for i, event := range []string{"labeled", "assigned", "closed"} {
			at := base.Add(time.Duration(i) * time.Hour)
			entry := &models.IssueChangelogEntry{
				ID:              int64(401 + i),
				IssueID:         201,
				Event:           event,
				GithubCreatedAt: &at,
			}
			require.NoError(t, repo.Upsert(entry))
		}
		require.NoError(t, repo.Upsert(&models.IssueChangelogEntry{ID: 500, IssueID: 999, Event: "other"}))

		entries, err := repo.ListByIssueID(201)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "labeled", entries[0].Event)
		assert.Equal(t, "closed", entries[2].Event)
	})
}

func TestJobRepository(t *testing.T) {
	t.Run("Claims pending jobs oldest first", func(t *testing.T) {
		repo := NewJobRepository(newTestDB(t))

		first := models.NewJob("user-1", models.JobTypeFullSync)
		first.CreatedAt = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(first))

		second := models.NewJob("user-1", models.JobTypeRepositorySync)
		second.SetTarget("acme/widgets")
		second.CreatedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(second))

		claimed, err := repo.GetNextPendingJob("sync-1")
		require.NoError(t, err)
		require.NotNil(t, claimed)
		assert.Equal(t, first.ID, claimed.ID)
		assert.Equal(t, models.JobStatusInProgress, claimed.Status)
		require.NotNil(t, claimed.WorkerID)
		assert.Equal(t, "sync-1", *claimed.WorkerID)

		claimed, err = repo.GetNextPendingJob("sync-1")
		require.NoError(t, err)
		require.NotNil(t, claimed)
		assert.Equal(t, second.ID, claimed.ID)
		require.NotNil(t, claimed.Target)
		assert.Equal(t, "acme/widgets", *claimed.Target)

		claimed, err = repo.GetNextPendingJob("sync-1")
		require.NoError(t, err)
		assert.Nil(t, claimed)
	})

	t.Run("Records outcomes", func(t *testing.T) {
		repo := NewJobRepository(newTestDB(t))

		job := models.NewJob("user-1", models.JobTypeFullSync)
		require.NoError(t, repo.Create(job))

		claimed, err := repo.GetNextPendingJob("sync-1")
		require.NoError(t, err)
		require.NotNil(t, claimed)

		claimed.MarkFailed()
		claimed.SetError("upstream down")
		require.NoError(t, repo.Update(claimed))

		stored, err := repo.GetByID(job.ID)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusFailed, stored.Status)
		require.NotNil(t, stored.ErrorMessage)
		assert.Equal(t, "upstream down", *stored.ErrorMessage)
		require.NotNil(t, stored.CompletedAt)
	})
}

func TestCollectionRepository(t *testing.T) {
	t.Run("All expected collections exist after migration", func(t *testing.T) {
		repo := NewCollectionRepository(newTestDB(t))

		available, err := repo.ListAvailable()
		require.NoError(t, err)
		for _, name := range ExpectedCollections {
			assert.Contains(t, available, name)
		}
	})

	t.Run("Unknown collections are rejected", func(t *testing.T) {
		repo := NewCollectionRepository(newTestDB(t))

		ok, err := repo.Exists("sqlite_master")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = repo.GetSchema("no_such_collection")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("Schema reports keys as required and unique", func(t *testing.T) {
		repo := NewCollectionRepository(newTestDB(t))

		schema, err := repo.GetSchema("github_commits")
		require.NoError(t, err)

		sha, ok := schema["sha"]
		require.True(t, ok)
		assert.True(t, sha.Required)
		assert.True(t, sha.Unique)

		message, ok := schema["message"]
		require.True(t, ok)
		assert.False(t, message.Unique)
	})

	t.Run("Data listing paginates and searches", func(t *testing.T) {
		db := newTestDB(t)
		orgRepo := NewOrganizationRepository(db)
		repo := NewCollectionRepository(db)

		logins := []string{"acme", "beta", "gamma"}
		for i, login := range logins {
			org := &models.Organization{ID: int64(301 + i), Login: login, URL: "https://github.com/" + login}
			require.NoError(t, orgRepo.Upsert(org))
		}

		page, err := repo.ListData("github_organizations", 1, 2, "")
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 2, page.Pages)
		assert.Len(t, page.Data, 2)

		page, err = repo.ListData("github_organizations", 2, 2, "")
		require.NoError(t, err)
		assert.Len(t, page.Data, 1)

		page, err = repo.ListData("github_organizations", 1, 10, "acm")
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, "acme", page.Data[0]["login"])
	})
}
