package githubclient

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Client wraps the GitHub API for the sync engine. Every call carries the
// bearer token it was built with, waits on a shared token bucket, and maps
// HTTP failures to FetchError. Retries are deliberately not done here.
type Client struct {
	gh      *github.Client
	limiter *rate.Limiter
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		if u, err := url.Parse(baseURL); err == nil {
			c.gh.BaseURL = u
		}
	}
}

// WithRateLimit sets the proactive request throttle in requests per second.
// Zero or negative disables throttling.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// NewClient creates a GitHub client authenticated with the given token
func NewClient(token string, opts ...Option) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	c := &Client{
		gh: github.NewClient(tc),
		// ~4300 requests/hour, under the authenticated limit of 5000
		limiter: rate.NewLimiter(rate.Limit(1.2), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// GetAuthenticatedUser returns the user the token belongs to
func (c *Client) GetAuthenticatedUser(ctx context.Context) (*github.User, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	user, _, err := c.gh.Users.Get(ctx, "")
	return user, wrapError(err)
}

// ListUserOrganizations lists the organizations of the authenticated user
func (c *Client) ListUserOrganizations(ctx context.Context) ([]*github.Organization, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	orgs, _, err := c.gh.Organizations.List(ctx, "", nil)
	return orgs, wrapError(err)
}

// ListUserRepositories lists one page of the authenticated user's repositories
func (c *Client) ListUserRepositories(ctx context.Context, page, perPage int) ([]*github.Repository, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	opts := &github.RepositoryListOptions{
		Type:        "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}
	repos, _, err := c.gh.Repositories.List(ctx, "", opts)
	return repos, wrapError(err)
}

// GetOrganization fetches one organization profile
func (c *Client) GetOrganization(ctx context.Context, login string) (*github.Organization, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	org, _, err := c.gh.Organizations.Get(ctx, login)
	return org, wrapError(err)
}

// ListOrganizationMembers lists one page of an organization's members
func (c *Client) ListOrganizationMembers(ctx context.Context, login string, page, perPage int) ([]*github.User, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	opts := &github.ListMembersOptions{
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}
	members, _, err := c.gh.Organizations.ListMembers(ctx, login, opts)
	return members, wrapError(err)
}

// ListOrganizationRepositories lists one page of an organization's repositories
func (c *Client) ListOrganizationRepositories(ctx context.Context, login string, page, perPage int) ([]*github.Repository, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	opts := &github.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}
	repos, _, err := c.gh.Repositories.ListByOrg(ctx, login, opts)
	return repos, wrapError(err)
}

// GetRepository fetches one repository profile
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*github.Repository, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	return repo, wrapError(err)
}

// ListRepositoryCommits fetches the first page of a repository's commits.
// The listing is not walked to completion.
func (c *Client) ListRepositoryCommits(ctx context.Context, owner, name string, perPage int) ([]*github.RepositoryCommit, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	commits, _, err := c.gh.Repositories.ListCommits(ctx, owner, name, opts)
	return commits, wrapError(err)
}

// ListRepositoryPullRequests fetches the first (default-sized) page of a
// repository's open pull requests.
func (c *Client) ListRepositoryPullRequests(ctx context.Context, owner, name string) ([]*github.PullRequest, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	prs, _, err := c.gh.PullRequests.List(ctx, owner, name, nil)
	return prs, wrapError(err)
}

// ListRepositoryIssues fetches the first (default-sized) page of a
// repository's open issues.
func (c *Client) ListRepositoryIssues(ctx context.Context, owner, name string) ([]*github.Issue, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	issues, _, err := c.gh.Issues.ListByRepo(ctx, owner, name, nil)
	return issues, wrapError(err)
}

// ListIssueEvents fetches the timeline events of one issue
func (c *Client) ListIssueEvents(ctx context.Context, owner, name string, number int) ([]*github.IssueEvent, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	events, _, err := c.gh.Issues.ListIssueEvents(ctx, owner, name, number, nil)
	return events, wrapError(err)
}
