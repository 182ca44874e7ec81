package services

import (
	"context"
	"fmt"

	"github.com/alimgiray/ghmirror/internal/githubclient"
	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/alimgiray/ghmirror/pkg/logger"
	"github.com/google/go-github/v57/github"
)

// OrgSyncResult counts the repository-level outcomes of one organization sync
type OrgSyncResult struct {
	RepositoriesSeen   int
	RepositoriesFailed int
}

// OrganizationSyncService mirrors one organization: its profile, the full
// member roster, and every repository it owns.
type OrganizationSyncService struct {
	orgStore    OrganizationStore
	memberStore OrganizationMemberStore
	repoSync    *RepositorySyncService
	pageSize    int
}

func NewOrganizationSyncService(
	orgStore OrganizationStore,
	memberStore OrganizationMemberStore,
	repoSync *RepositorySyncService,
	pageSize int,
) *OrganizationSyncService {
	return &OrganizationSyncService{
		orgStore:    orgStore,
		memberStore: memberStore,
		repoSync:    repoSync,
		pageSize:    pageSize,
	}
}

// SyncOrganization mirrors the organization identified by login. Profile and
// listing fetch failures abort the organization; a failing repository is
// logged, counted, and never stops its siblings. The result is valid even
// when an error is returned.
func (s *OrganizationSyncService) SyncOrganization(ctx context.Context, client GithubAPI, login string) (*OrgSyncResult, error) {
	result := &OrgSyncResult{}

	raw, err := client.GetOrganization(ctx, login)
	if err != nil {
		return result, fmt.Errorf("fetch organization %s: %w", login, err)
	}

	org, err := transformOrganization(raw)
	if err != nil {
		return result, fmt.Errorf("transform organization %s: %w", login, err)
	}

	if err := s.orgStore.Upsert(org); err != nil {
		return result, fmt.Errorf("store organization %s: %w", login, err)
	}

	orgRef := models.OrgRef{ID: org.ID, Login: org.Login}

	if err := s.syncMembers(ctx, client, login, orgRef); err != nil {
		return result, err
	}

	repos, err := githubclient.FetchAll(ctx, s.pageSize, func(ctx context.Context, page int) ([]*github.Repository, error) {
		return client.ListOrganizationRepositories(ctx, login, page, s.pageSize)
	})
	if err != nil {
		return result, fmt.Errorf("list repositories of %s: %w", login, err)
	}

	for _, rawRepo := range repos {
		fullName := rawRepo.GetFullName()
		if fullName == "" {
			logger.Warnf("Skipping repository without full name in organization %s", login)
			continue
		}

		result.RepositoriesSeen++
		if err := s.repoSync.SyncRepository(ctx, client, fullName); err != nil {
			result.RepositoriesFailed++
			logger.WithError(err).Errorf("Failed to sync repository %s", fullName)
		}
	}

	logger.Infof("Synced organization %s: %d repositories, %d failed",
		login, result.RepositoriesSeen, result.RepositoriesFailed)
	return result, nil
}

// syncMembers walks the full member roster page by page. Individual members
// that fail to transform or store are logged and skipped.
func (s *OrganizationSyncService) syncMembers(ctx context.Context, client GithubAPI, login string, orgRef models.OrgRef) error {
	members, err := githubclient.FetchAll(ctx, s.pageSize, func(ctx context.Context, page int) ([]*github.User, error) {
		return client.ListOrganizationMembers(ctx, login, page, s.pageSize)
	})
	if err != nil {
		return fmt.Errorf("list members of %s: %w", login, err)
	}

	synced := 0
	for _, raw := range members {
		member, err := transformMember(raw, orgRef)
		if err != nil {
			logger.WithError(err).Warnf("Skipping member of %s", login)
			continue
		}
		if err := s.memberStore.Upsert(member); err != nil {
			logger.WithError(err).Warnf("Failed to store member %s of %s", member.Login, login)
			continue
		}
		synced++
	}

	logger.Debugf("Synced %d members for organization %s", synced, login)
	return nil
}
