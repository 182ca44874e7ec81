package services

import (
	"errors"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/google/go-github/v57/github"
)

// ErrMissingIdentity marks an upstream record that arrived without its
// identifying field (id or sha). Such records cannot be stored and are
// skipped; they never abort the surrounding batch.
var ErrMissingIdentity = errors.New("record is missing its identifying field")

func actorRef(user *github.User) *models.ActorRef {
	if user == nil {
		return nil
	}
	return &models.ActorRef{
		Login: user.GetLogin(),
		ID:    user.GetID(),
		Type:  user.GetType(),
	}
}

func actorRefs(users []*github.User) []models.ActorRef {
	refs := []models.ActorRef{}
	for _, user := range users {
		if ref := actorRef(user); ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs
}

func labelRefs(labels []*github.Label) []models.LabelRef {
	refs := []models.LabelRef{}
	for _, label := range labels {
		if label == nil {
			continue
		}
		refs = append(refs, models.LabelRef{
			ID:    label.GetID(),
			Name:  label.GetName(),
			Color: label.GetColor(),
		})
	}
	return refs
}

func labelRef(label *github.Label) *models.LabelRef {
	if label == nil {
		return nil
	}
	return &models.LabelRef{
		ID:    label.GetID(),
		Name:  label.GetName(),
		Color: label.GetColor(),
	}
}

func timeValue(ts *github.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}

func stringValue(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// transformOrganization maps an upstream organization profile to its stored
// document. Missing optional profile fields stay nil.
func transformOrganization(raw *github.Organization) (*models.Organization, error) {
	if raw == nil || raw.GetID() == 0 {
		return nil, ErrMissingIdentity
	}

	return &models.Organization{
		ID:                      raw.GetID(),
		Login:                   raw.GetLogin(),
		URL:                     raw.GetURL(),
		Description:             stringValue(raw.Description),
		Name:                    stringValue(raw.Name),
		Company:                 stringValue(raw.Company),
		Blog:                    stringValue(raw.Blog),
		Location:                stringValue(raw.Location),
		Email:                   stringValue(raw.Email),
		TwitterUsername:         stringValue(raw.TwitterUsername),
		IsVerified:              raw.GetIsVerified(),
		HasOrganizationProjects: raw.GetHasOrganizationProjects(),
		HasRepositoryProjects:   raw.GetHasRepositoryProjects(),
		PublicRepos:             raw.GetPublicRepos(),
		PublicGists:             raw.GetPublicGists(),
		Followers:               raw.GetFollowers(),
		Following:               raw.GetFollowing(),
		GithubCreatedAt:         timeValue(raw.CreatedAt),
		GithubUpdatedAt:         timeValue(raw.UpdatedAt),
	}, nil
}

// transformMember maps an upstream member listing entry to its stored
// document, embedding a reference to the owning organization. Role and state
// are not part of the member listing payload and stay nil.
func transformMember(raw *github.User, org models.OrgRef) (*models.OrganizationMember, error) {
	if raw == nil || raw.GetID() == 0 {
		return nil, ErrMissingIdentity
	}

	return &models.OrganizationMember{
		ID:           raw.GetID(),
		Login:        raw.GetLogin(),
		Organization: org,
	}, nil
}

// transformRepository maps an upstream repository profile to its stored
// document. A missing owner becomes a zero-valued reference and a missing
// topic list becomes an empty list.
func transformRepository(raw *github.Repository) (*models.Repository, error) {
	if raw == nil || raw.GetID() == 0 {
		return nil, ErrMissingIdentity
	}

	owner := models.ActorRef{}
	if ref := actorRef(raw.Owner); ref != nil {
		owner = *ref
	}

	topics := raw.Topics
	if topics == nil {
		topics = []string{}
	}

	return &models.Repository{
		ID:              raw.GetID(),
		Name:            raw.GetName(),
		FullName:        raw.GetFullName(),
		Private:         raw.GetPrivate(),
		Owner:           owner,
		Description:     stringValue(raw.Description),
		Fork:            raw.GetFork(),
		Homepage:        stringValue(raw.Homepage),
		Size:            raw.GetSize(),
		StargazersCount: raw.GetStargazersCount(),
		WatchersCount:   raw.GetWatchersCount(),
		Language:        stringValue(raw.Language),
		ForksCount:      raw.GetForksCount(),
		Archived:        raw.GetArchived(),
		Disabled:        raw.GetDisabled(),
		OpenIssuesCount: raw.GetOpenIssuesCount(),
		Topics:          topics,
		Visibility:      stringValue(raw.Visibility),
		DefaultBranch:   stringValue(raw.DefaultBranch),
		GithubCreatedAt: timeValue(raw.CreatedAt),
		GithubUpdatedAt: timeValue(raw.UpdatedAt),
		GithubPushedAt:  timeValue(raw.PushedAt),
	}, nil
}

// transformCommit maps an upstream commit to its stored document. Author and
// committer accounts are nil when the commit has no linked account; the git
// name, email and date fall back to zero values when the nested commit
// payload is missing.
func transformCommit(raw *github.RepositoryCommit, repo models.RepoRef) (*models.Commit, error) {
	if raw == nil || raw.GetSHA() == "" {
		return nil, ErrMissingIdentity
	}

	commit := &models.Commit{
		SHA:        raw.GetSHA(),
		Author:     actorRef(raw.Author),
		Committer:  actorRef(raw.Committer),
		Parents:    []models.CommitParentRef{},
		Repository: repo,
		HTMLURL:    raw.GetHTMLURL(),
	}

	if detail := raw.Commit; detail != nil {
		commit.Message = detail.GetMessage()
		if author := detail.Author; author != nil {
			commit.AuthorName = author.GetName()
			commit.AuthorEmail = author.GetEmail()
			commit.AuthorDate = timeValue(author.Date)
		}
		if committer := detail.Committer; committer != nil {
			commit.CommitterName = committer.GetName()
			commit.CommitterEmail = committer.GetEmail()
			commit.CommitterDate = timeValue(committer.Date)
		}
	}

	for _, parent := range raw.Parents {
		if parent == nil {
			continue
		}
		commit.Parents = append(commit.Parents, models.CommitParentRef{
			SHA: parent.GetSHA(),
			URL: parent.GetURL(),
		})
	}

	return commit, nil
}

// transformPullRequest maps an upstream pull request to its stored document
func transformPullRequest(raw *github.PullRequest, repo models.RepoRef) (*models.PullRequest, error) {
	if raw == nil || raw.GetID() == 0 {
		return nil, ErrMissingIdentity
	}

	return &models.PullRequest{
		ID:                 raw.GetID(),
		Number:             raw.GetNumber(),
		State:              raw.GetState(),
		Title:              raw.GetTitle(),
		User:               actorRef(raw.User),
		Body:               stringValue(raw.Body),
		Draft:              raw.GetDraft(),
		MergedAt:           timeValue(raw.MergedAt),
		MergeCommitSHA:     stringValue(raw.MergeCommitSHA),
		Assignee:           actorRef(raw.Assignee),
		Assignees:          actorRefs(raw.Assignees),
		RequestedReviewers: actorRefs(raw.RequestedReviewers),
		Labels:             labelRefs(raw.Labels),
		Repository:         repo,
		GithubCreatedAt:    timeValue(raw.CreatedAt),
		GithubUpdatedAt:    timeValue(raw.UpdatedAt),
		ClosedAt:           timeValue(raw.ClosedAt),
	}, nil
}

// transformIssue maps an upstream issue to its stored document. The pull
// request link is nil for plain issues.
func transformIssue(raw *github.Issue, repo models.RepoRef) (*models.Issue, error) {
	if raw == nil || raw.GetID() == 0 {
		return nil, ErrMissingIdentity
	}

	issue := &models.Issue{
		ID:              raw.GetID(),
		Number:          raw.GetNumber(),
		State:           raw.GetState(),
		Title:           raw.GetTitle(),
		User:            actorRef(raw.User),
		Body:            stringValue(raw.Body),
		Locked:          raw.GetLocked(),
		Comments:        raw.GetComments(),
		Assignee:        actorRef(raw.Assignee),
		Assignees:       actorRefs(raw.Assignees),
		Labels:          labelRefs(raw.Labels),
		Repository:      repo,
		GithubCreatedAt: timeValue(raw.CreatedAt),
		GithubUpdatedAt: timeValue(raw.UpdatedAt),
		ClosedAt:        timeValue(raw.ClosedAt),
	}

	if links := raw.PullRequestLinks; links != nil {
		issue.PullRequest = &models.PullRequestLinkRef{
			URL:     links.GetURL(),
			HTMLURL: links.GetHTMLURL(),
		}
	}

	return issue, nil
}

// transformIssueEvent maps an upstream timeline event to its stored changelog
// entry, keyed to the owning issue's upstream id.
func transformIssueEvent(raw *github.IssueEvent, issueID int64) (*models.IssueChangelogEntry, error) {
	if raw == nil || raw.GetID() == 0 {
		return nil, ErrMissingIdentity
	}

	return &models.IssueChangelogEntry{
		ID:              raw.GetID(),
		IssueID:         issueID,
		Event:           raw.GetEvent(),
		CommitID:        stringValue(raw.CommitID),
		CommitURL:       stringValue(raw.CommitURL),
		Actor:           actorRef(raw.Actor),
		Label:           labelRef(raw.Label),
		Assignee:        actorRef(raw.Assignee),
		Assigner:        actorRef(raw.Assigner),
		GithubCreatedAt: timeValue(raw.CreatedAt),
	}, nil
}
