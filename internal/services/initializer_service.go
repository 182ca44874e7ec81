package services

import (
	"fmt"

	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/alimgiray/ghmirror/pkg/logger"
)

// InitializerService seeds every mirrored collection with its sentinel
// document before a full sync. The upserts are idempotent; running the
// initializer twice leaves exactly one sentinel per collection.
type InitializerService struct {
	orgStore       OrganizationStore
	memberStore    OrganizationMemberStore
	repoStore      RepositoryStore
	commitStore    CommitStore
	prStore        PullRequestStore
	issueStore     IssueStore
	changelogStore IssueChangelogStore
}

func NewInitializerService(
	orgStore OrganizationStore,
	memberStore OrganizationMemberStore,
	repoStore RepositoryStore,
	commitStore CommitStore,
	prStore PullRequestStore,
	issueStore IssueStore,
	changelogStore IssueChangelogStore,
) *InitializerService {
	return &InitializerService{
		orgStore:       orgStore,
		memberStore:    memberStore,
		repoStore:      repoStore,
		commitStore:    commitStore,
		prStore:        prStore,
		issueStore:     issueStore,
		changelogStore: changelogStore,
	}
}

// InitializeCollections upserts the sentinel document into each mirrored
// collection. Any failure here means the store is not usable and aborts the
// sync that requested it.
func (s *InitializerService) InitializeCollections() error {
	sentinelRepo := models.RepoRef{
		ID:       models.SentinelID,
		Name:     models.SentinelLogin,
		FullName: models.SentinelRepoName,
	}

	org := &models.Organization{
		ID:    models.SentinelID,
		Login: models.SentinelLogin,
		URL:   models.SentinelURL,
	}
	if err := s.orgStore.Upsert(org); err != nil {
		return fmt.Errorf("initialize organizations: %w", err)
	}

	member := &models.OrganizationMember{
		ID:    models.SentinelID,
		Login: models.SentinelLogin,
		Organization: models.OrgRef{
			ID:    models.SentinelID,
			Login: models.SentinelLogin,
		},
	}
	if err := s.memberStore.Upsert(member); err != nil {
		return fmt.Errorf("initialize organization members: %w", err)
	}

	repo := &models.Repository{
		ID:       models.SentinelID,
		Name:     models.SentinelLogin,
		FullName: models.SentinelRepoName,
		Owner: models.ActorRef{
			Login: models.SentinelLogin,
			ID:    models.SentinelID,
			Type:  "User",
		},
		Topics: []string{},
	}
	if err := s.repoStore.Upsert(repo); err != nil {
		return fmt.Errorf("initialize repositories: %w", err)
	}

	commit := &models.Commit{
		SHA:        models.SentinelSHA,
		Parents:    []models.CommitParentRef{},
		Repository: sentinelRepo,
		HTMLURL:    models.SentinelURL,
	}
	if err := s.commitStore.Upsert(commit); err != nil {
		return fmt.Errorf("initialize commits: %w", err)
	}

	pr := &models.PullRequest{
		ID:                 models.SentinelID,
		Number:             -1,
		State:              "closed",
		Title:              models.SentinelLogin,
		Assignees:          []models.ActorRef{},
		RequestedReviewers: []models.ActorRef{},
		Labels:             []models.LabelRef{},
		Repository:         sentinelRepo,
	}
	if err := s.prStore.Upsert(pr); err != nil {
		return fmt.Errorf("initialize pull requests: %w", err)
	}

	issue := &models.Issue{
		ID:         models.SentinelID,
		Number:     -1,
		State:      "closed",
		Title:      models.SentinelLogin,
		Assignees:  []models.ActorRef{},
		Labels:     []models.LabelRef{},
		Repository: sentinelRepo,
	}
	if err := s.issueStore.Upsert(issue); err != nil {
		return fmt.Errorf("initialize issues: %w", err)
	}

	entry := &models.IssueChangelogEntry{
		ID:      models.SentinelID,
		IssueID: models.SentinelID,
		Event:   models.SentinelLogin,
	}
	if err := s.changelogStore.Upsert(entry); err != nil {
		return fmt.Errorf("initialize issue changelogs: %w", err)
	}

	logger.Debugf("Initialized mirrored collections with sentinel documents")
	return nil
}
