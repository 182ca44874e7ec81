package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alimgiray/ghmirror/internal/githubclient"
	"github.com/alimgiray/ghmirror/pkg/logger"
	"github.com/google/go-github/v57/github"
)

// ErrNotConnected is returned when a sync is requested for a tenant without a
// usable GitHub integration. It is the only auth failure and it is fatal to
// the sync.
var ErrNotConnected = errors.New("github integration is not connected")

// SyncSummary reports the outcome of a full sync
type SyncSummary struct {
	OrganizationsSeen  int `json:"organizations_seen"`
	RepositoriesSeen   int `json:"repositories_seen"`
	RepositoriesFailed int `json:"repositories_failed"`
}

// SyncService orchestrates the full mirror walk: initialize collections, then
// every organization the tenant belongs to, then the tenant's own
// repositories, then stamp the integration's last sync time.
type SyncService struct {
	integrationStore IntegrationStore
	initializer      *InitializerService
	orgSync          *OrganizationSyncService
	repoSync         *RepositorySyncService
	clientFactory    ClientFactory
	pageSize         int
}

func NewSyncService(
	integrationStore IntegrationStore,
	initializer *InitializerService,
	orgSync *OrganizationSyncService,
	repoSync *RepositorySyncService,
	clientFactory ClientFactory,
	pageSize int,
) *SyncService {
	return &SyncService{
		integrationStore: integrationStore,
		initializer:      initializer,
		orgSync:          orgSync,
		repoSync:         repoSync,
		clientFactory:    clientFactory,
		pageSize:         pageSize,
	}
}

// RunFullSync mirrors everything reachable with the tenant's token. Only two
// failures abort the walk: a missing integration and a failed collection
// initialization. Everything below that level is logged, counted, and walked
// past, and the last sync time is stamped exactly once at the end.
func (s *SyncService) RunFullSync(ctx context.Context, userID string) (*SyncSummary, error) {
	client, err := s.clientFor(userID)
	if err != nil {
		return nil, err
	}

	if err := s.initializer.InitializeCollections(); err != nil {
		return nil, fmt.Errorf("initialize collections: %w", err)
	}

	summary := &SyncSummary{}
	startedAt := time.Now()
	logger.Infof("Starting full sync for user %s", userID)

	orgs, err := client.ListUserOrganizations(ctx)
	if err != nil {
		logger.WithError(err).Errorf("Failed to list organizations for user %s", userID)
	} else {
		for _, org := range orgs {
			login := org.GetLogin()
			if login == "" {
				continue
			}

			summary.OrganizationsSeen++
			result, orgErr := s.orgSync.SyncOrganization(ctx, client, login)
			summary.RepositoriesSeen += result.RepositoriesSeen
			summary.RepositoriesFailed += result.RepositoriesFailed
			if orgErr != nil {
				logger.WithError(orgErr).Errorf("Failed to sync organization %s", login)
			}
		}
	}

	repos, err := githubclient.FetchAll(ctx, s.pageSize, func(ctx context.Context, page int) ([]*github.Repository, error) {
		return client.ListUserRepositories(ctx, page, s.pageSize)
	})
	if err != nil {
		logger.WithError(err).Errorf("Failed to list repositories for user %s", userID)
	} else {
		for _, repo := range repos {
			fullName := repo.GetFullName()
			if fullName == "" {
				continue
			}

			summary.RepositoriesSeen++
			if repoErr := s.repoSync.SyncRepository(ctx, client, fullName); repoErr != nil {
				summary.RepositoriesFailed++
				logger.WithError(repoErr).Errorf("Failed to sync repository %s", fullName)
			}
		}
	}

	if err := s.integrationStore.StampLastSynced(userID, time.Now()); err != nil {
		logger.WithError(err).Errorf("Failed to stamp last sync time for user %s", userID)
	}

	logger.Infof("Full sync for user %s finished in %s: %d organizations, %d repositories, %d failed",
		userID, time.Since(startedAt).Round(time.Millisecond),
		summary.OrganizationsSeen, summary.RepositoriesSeen, summary.RepositoriesFailed)
	return summary, nil
}

// SyncOrganization mirrors a single organization as a standalone unit. Unlike
// the full sync, failures propagate to the caller.
func (s *SyncService) SyncOrganization(ctx context.Context, userID, login string) (*OrgSyncResult, error) {
	client, err := s.clientFor(userID)
	if err != nil {
		return nil, err
	}
	return s.orgSync.SyncOrganization(ctx, client, login)
}

// SyncRepository mirrors a single repository as a standalone unit
func (s *SyncService) SyncRepository(ctx context.Context, userID, fullName string) error {
	client, err := s.clientFor(userID)
	if err != nil {
		return err
	}
	return s.repoSync.SyncRepository(ctx, client, fullName)
}

func (s *SyncService) clientFor(userID string) (GithubAPI, error) {
	integration, err := s.integrationStore.GetByUserID(userID)
	if err != nil {
		return nil, ErrNotConnected
	}
	if integration == nil || !integration.IsConnected || integration.AccessToken == "" {
		return nil, ErrNotConnected
	}
	return s.clientFactory(integration.AccessToken), nil
}
