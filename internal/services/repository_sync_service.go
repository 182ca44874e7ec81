package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/alimgiray/ghmirror/internal/githubclient"
	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/alimgiray/ghmirror/pkg/logger"
)

// commitPageSize is the page size for the single commit listing fetch. Only
// the first page is fetched; older commits are not mirrored.
const commitPageSize = 100

// RepositorySyncService mirrors one repository: its profile plus commits,
// pull requests and issues fetched concurrently.
type RepositorySyncService struct {
	repoStore      RepositoryStore
	commitStore    CommitStore
	prStore        PullRequestStore
	issueStore     IssueStore
	changelogStore IssueChangelogStore
}

func NewRepositorySyncService(
	repoStore RepositoryStore,
	commitStore CommitStore,
	prStore PullRequestStore,
	issueStore IssueStore,
	changelogStore IssueChangelogStore,
) *RepositorySyncService {
	return &RepositorySyncService{
		repoStore:      repoStore,
		commitStore:    commitStore,
		prStore:        prStore,
		issueStore:     issueStore,
		changelogStore: changelogStore,
	}
}

// SyncRepository mirrors the repository identified by its "owner/name" full
// name. The profile fetch must succeed; commits, pull requests and issues are
// then synced concurrently, each running to completion regardless of sibling
// failures. The returned error aggregates the failed branches.
func (s *RepositorySyncService) SyncRepository(ctx context.Context, client GithubAPI, fullName string) error {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return err
	}

	raw, err := client.GetRepository(ctx, owner, name)
	if err != nil {
		return fmt.Errorf("fetch repository %s: %w", fullName, err)
	}

	repo, err := transformRepository(raw)
	if err != nil {
		return fmt.Errorf("transform repository %s: %w", fullName, err)
	}

	if err := s.repoStore.Upsert(repo); err != nil {
		return fmt.Errorf("store repository %s: %w", fullName, err)
	}

	ref := repo.Ref()

	return runSubtasks(ctx, []subtask{
		{name: "commits", run: func(ctx context.Context) error {
			return s.syncCommits(ctx, client, owner, name, ref)
		}},
		{name: "pull_requests", run: func(ctx context.Context) error {
			return s.syncPullRequests(ctx, client, owner, name, ref)
		}},
		{name: "issues", run: func(ctx context.Context) error {
			return s.syncIssues(ctx, client, owner, name, ref)
		}},
	})
}

// syncCommits mirrors the first page of the repository's commit history. An
// upstream 409 means the repository is empty and is not an error. Records
// that fail to transform or store are logged and skipped.
func (s *RepositorySyncService) syncCommits(ctx context.Context, client GithubAPI, owner, name string, ref models.RepoRef) error {
	raws, err := client.ListRepositoryCommits(ctx, owner, name, commitPageSize)
	if err != nil {
		if githubclient.HasStatus(err, http.StatusConflict) {
			logger.Infof("Repository %s is empty, skipping commits", ref.FullName)
			return nil
		}
		return fmt.Errorf("fetch commits: %w", err)
	}

	synced := 0
	for _, raw := range raws {
		commit, err := transformCommit(raw, ref)
		if err != nil {
			logger.WithError(err).Warnf("Skipping commit in %s", ref.FullName)
			continue
		}
		if err := s.commitStore.Upsert(commit); err != nil {
			logger.WithError(err).Warnf("Failed to store commit %s in %s", commit.SHA, ref.FullName)
			continue
		}
		synced++
	}

	logger.Debugf("Synced %d commits for %s", synced, ref.FullName)
	return nil
}

// syncPullRequests mirrors the default first page of the repository's pull
// requests.
func (s *RepositorySyncService) syncPullRequests(ctx context.Context, client GithubAPI, owner, name string, ref models.RepoRef) error {
	raws, err := client.ListRepositoryPullRequests(ctx, owner, name)
	if err != nil {
		return fmt.Errorf("fetch pull requests: %w", err)
	}

	synced := 0
	for _, raw := range raws {
		pr, err := transformPullRequest(raw, ref)
		if err != nil {
			logger.WithError(err).Warnf("Skipping pull request in %s", ref.FullName)
			continue
		}
		if err := s.prStore.Upsert(pr); err != nil {
			logger.WithError(err).Warnf("Failed to store pull request #%d in %s", pr.Number, ref.FullName)
			continue
		}
		synced++
	}

	logger.Debugf("Synced %d pull requests for %s", synced, ref.FullName)
	return nil
}

// syncIssues mirrors the default first page of the repository's issues, and
// for each stored issue its full changelog. A changelog fetch failure aborts
// the issues branch; individual bad records are logged and skipped.
func (s *RepositorySyncService) syncIssues(ctx context.Context, client GithubAPI, owner, name string, ref models.RepoRef) error {
	raws, err := client.ListRepositoryIssues(ctx, owner, name)
	if err != nil {
		return fmt.Errorf("fetch issues: %w", err)
	}

	synced := 0
	for _, raw := range raws {
		issue, err := transformIssue(raw, ref)
		if err != nil {
			logger.WithError(err).Warnf("Skipping issue in %s", ref.FullName)
			continue
		}
		if err := s.issueStore.Upsert(issue); err != nil {
			logger.WithError(err).Warnf("Failed to store issue #%d in %s", issue.Number, ref.FullName)
			continue
		}
		synced++

		if err := s.syncIssueChangelog(ctx, client, owner, name, issue); err != nil {
			return err
		}
	}

	logger.Debugf("Synced %d issues for %s", synced, ref.FullName)
	return nil
}

func (s *RepositorySyncService) syncIssueChangelog(ctx context.Context, client GithubAPI, owner, name string, issue *models.Issue) error {
	raws, err := client.ListIssueEvents(ctx, owner, name, issue.Number)
	if err != nil {
		return fmt.Errorf("fetch changelog for issue #%d: %w", issue.Number, err)
	}

	for _, raw := range raws {
		entry, err := transformIssueEvent(raw, issue.ID)
		if err != nil {
			logger.WithError(err).Warnf("Skipping changelog entry for issue #%d", issue.Number)
			continue
		}
		if err := s.changelogStore.Upsert(entry); err != nil {
			logger.WithError(err).Warnf("Failed to store changelog entry %d for issue #%d", entry.ID, issue.Number)
			continue
		}
	}

	return nil
}

// splitFullName splits an "owner/name" repository full name
func splitFullName(fullName string) (string, string, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository full name: %q", fullName)
	}
	return owner, name, nil
}
