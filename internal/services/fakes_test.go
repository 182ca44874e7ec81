package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/google/go-github/v57/github"
)

var errStoreDown = errors.New("store unavailable")

type memOrgStore struct {
	mu         sync.Mutex
	orgs       map[int64]*models.Organization
	failUpsert bool
}

func newMemOrgStore() *memOrgStore {
	return &memOrgStore{orgs: make(map[int64]*models.Organization)}
}

func (s *memOrgStore) Upsert(org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpsert {
		return errStoreDown
	}
	s.orgs[org.ID] = org
	return nil
}

type memMemberStore struct {
	mu      sync.Mutex
	members map[int64]*models.OrganizationMember
}

func newMemMemberStore() *memMemberStore {
	return &memMemberStore{members: make(map[int64]*models.OrganizationMember)}
}

func (s *memMemberStore) Upsert(member *models.OrganizationMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.ID] = member
	return nil
}

type memRepoStore struct {
	mu    sync.Mutex
	repos map[int64]*models.Repository
}

func newMemRepoStore() *memRepoStore {
	return &memRepoStore{repos: make(map[int64]*models.Repository)}
}

func (s *memRepoStore) Upsert(repo *models.Repository) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repos[repo.ID] = repo
	return nil
}

type memCommitStore struct {
	mu         sync.Mutex
	commits    map[string]*models.Commit
	failUpsert bool
}

func newMemCommitStore() *memCommitStore {
	return &memCommitStore{commits: make(map[string]*models.Commit)}
}

func (s *memCommitStore) Upsert(commit *models.Commit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpsert {
		return errStoreDown
	}
	s.commits[commit.SHA] = commit
	return nil
}

type memPRStore struct {
	mu  sync.Mutex
	prs map[int64]*models.PullRequest
}

func newMemPRStore() *memPRStore {
	return &memPRStore{prs: make(map[int64]*models.PullRequest)}
}

func (s *memPRStore) Upsert(pr *models.PullRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prs[pr.ID] = pr
	return nil
}

type memIssueStore struct {
	mu     sync.Mutex
	issues map[int64]*models.Issue
}

func newMemIssueStore() *memIssueStore {
	return &memIssueStore{issues: make(map[int64]*models.Issue)}
}

func (s *memIssueStore) Upsert(issue *models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues[issue.ID] = issue
	return nil
}

type memChangelogStore struct {
	mu         sync.Mutex
	entries    map[int64]*models.IssueChangelogEntry
	failUpsert bool
}

func newMemChangelogStore() *memChangelogStore {
	return &memChangelogStore{entries: make(map[int64]*models.IssueChangelogEntry)}
}

func (s *memChangelogStore) Upsert(entry *models.IssueChangelogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpsert {
		return errStoreDown
	}
	s.entries[entry.ID] = entry
	return nil
}

type memIntegrationStore struct {
	mu          sync.Mutex
	integration *models.Integration
	stamps      []time.Time
}

func (s *memIntegrationStore) GetByUserID(userID string) (*models.Integration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.integration == nil || s.integration.UserID != userID {
		return nil, errors.New("integration not found")
	}
	return s.integration, nil
}

func (s *memIntegrationStore) StampLastSynced(userID string, syncedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamps = append(s.stamps, syncedAt)
	return nil
}

// fakeAPI serves canned upstream data, keyed by org login and repository full
// name. Error fields inject failures at the matching fetch.
type fakeAPI struct {
	orgs         []*github.Organization
	orgsErr      error
	orgMembers   map[string][]*github.User
	orgRepos     map[string][]*github.Repository
	userRepos    []*github.Repository
	userReposErr error
	repos        map[string]*github.Repository
	commits      map[string][]*github.RepositoryCommit
	commitsErr   map[string]error
	prs          map[string][]*github.PullRequest
	prsErr       map[string]error
	issues       map[string][]*github.Issue
	events       map[string][]*github.IssueEvent
	eventsErr    map[string]error
}

func (f *fakeAPI) GetAuthenticatedUser(ctx context.Context) (*github.User, error) {
	return &github.User{Login: github.String("jane"), ID: github.Int64(7)}, nil
}

func (f *fakeAPI) ListUserOrganizations(ctx context.Context) ([]*github.Organization, error) {
	return f.orgs, f.orgsErr
}

func (f *fakeAPI) ListUserRepositories(ctx context.Context, page, perPage int) ([]*github.Repository, error) {
	if f.userReposErr != nil {
		return nil, f.userReposErr
	}
	return paginate(f.userRepos, page, perPage), nil
}

func (f *fakeAPI) GetOrganization(ctx context.Context, login string) (*github.Organization, error) {
	for _, org := range f.orgs {
		if org.GetLogin() == login {
			return org, nil
		}
	}
	return nil, fmt.Errorf("organization %s not found", login)
}

func (f *fakeAPI) ListOrganizationMembers(ctx context.Context, login string, page, perPage int) ([]*github.User, error) {
	return paginate(f.orgMembers[login], page, perPage), nil
}

func (f *fakeAPI) ListOrganizationRepositories(ctx context.Context, login string, page, perPage int) ([]*github.Repository, error) {
	return paginate(f.orgRepos[login], page, perPage), nil
}

func (f *fakeAPI) GetRepository(ctx context.Context, owner, name string) (*github.Repository, error) {
	if repo, ok := f.repos[owner+"/"+name]; ok {
		return repo, nil
	}
	return nil, fmt.Errorf("repository %s/%s not found", owner, name)
}

func (f *fakeAPI) ListRepositoryCommits(ctx context.Context, owner, name string, perPage int) ([]*github.RepositoryCommit, error) {
	fullName := owner + "/" + name
	if err := f.commitsErr[fullName]; err != nil {
		return nil, err
	}
	return f.commits[fullName], nil
}

func (f *fakeAPI) ListRepositoryPullRequests(ctx context.Context, owner, name string) ([]*github.PullRequest, error) {
	fullName := owner + "/" + name
	if err := f.prsErr[fullName]; err != nil {
		return nil, err
	}
	return f.prs[fullName], nil
}

func (f *fakeAPI) ListRepositoryIssues(ctx context.Context, owner, name string) ([]*github.Issue, error) {
	return f.issues[owner+"/"+name], nil
}

func (f *fakeAPI) ListIssueEvents(ctx context.Context, owner, name string, number int) ([]*github.IssueEvent, error) {
	key := fmt.Sprintf("%s/%s#%d", owner, name, number)
	if err := f.eventsErr[key]; err != nil {
		return nil, err
	}
	return f.events[key], nil
}

func paginate[T any](items []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func ghOrg(id int64, login string) *github.Organization {
	return &github.Organization{ID: github.Int64(id), Login: github.String(login)}
}

func ghUser(id int64, login string) *github.User {
	return &github.User{ID: github.Int64(id), Login: github.String(login), Type: github.String("User")}
}

func ghRepo(id int64, fullName string) *github.Repository {
	owner, name, _ := strings.Cut(fullName, "/")
	return &github.Repository{
		ID:       github.Int64(id),
		Name:     github.String(name),
		FullName: github.String(fullName),
		Owner:    &github.User{Login: github.String(owner), ID: github.Int64(id * 10), Type: github.String("Organization")},
	}
}

func ghCommit(sha string) *github.RepositoryCommit {
	return &github.RepositoryCommit{
		SHA:    github.String(sha),
		Commit: &github.Commit{Message: github.String("commit " + sha)},
	}
}

func ghPR(id int64, number int) *github.PullRequest {
	return &github.PullRequest{
		ID:     github.Int64(id),
		Number: github.Int(number),
		State:  github.String("open"),
		Title:  github.String(fmt.Sprintf("pr %d", number)),
	}
}

func ghIssue(id int64, number int) *github.Issue {
	return &github.Issue{
		ID:     github.Int64(id),
		Number: github.Int(number),
		State:  github.String("open"),
		Title:  github.String(fmt.Sprintf("issue %d", number)),
	}
}

func ghEvent(id int64, event string) *github.IssueEvent {
	return &github.IssueEvent{ID: github.Int64(id), Event: github.String(event)}
}
