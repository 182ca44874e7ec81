package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
)

type IssueRepository struct {
	db *sql.DB
}

func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// Upsert creates or fully replaces the issue keyed by its upstream id,
// stamping last_synced_at.
func (r *IssueRepository) Upsert(issue *models.Issue) error {
	issue.LastSyncedAt = time.Now()

	var userJSON, assigneeJSON, prLinkJSON *string
	if issue.User != nil {
		s, err := toJSON(issue.User)
		if err != nil {
			return err
		}
		userJSON = &s
	}
	if issue.Assignee != nil {
		s, err := toJSON(issue.Assignee)
		if err != nil {
			return err
		}
		assigneeJSON = &s
	}
	if issue.PullRequest != nil {
		s, err := toJSON(issue.PullRequest)
		if err != nil {
			return err
		}
		prLinkJSON = &s
	}

	if issue.Assignees == nil {
		issue.Assignees = []models.ActorRef{}
	}
	if issue.Labels == nil {
		issue.Labels = []models.LabelRef{}
	}
	assigneesJSON, err := toJSON(issue.Assignees)
	if err != nil {
		return err
	}
	labelsJSON, err := toJSON(issue.Labels)
	if err != nil {
		return err
	}
	repoJSON, err := toJSON(issue.Repository)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO github_issues (
			id, number, state, title, user, body, locked, comments, assignee,
			assignees, labels, pull_request, repository, github_created_at,
			github_updated_at, closed_at, last_synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			state = excluded.state,
			title = excluded.title,
			user = excluded.user,
			body = excluded.body,
			locked = excluded.locked,
			comments = excluded.comments,
			assignee = excluded.assignee,
			assignees = excluded.assignees,
			labels = excluded.labels,
			pull_request = excluded.pull_request,
			repository = excluded.repository,
			github_created_at = excluded.github_created_at,
			github_updated_at = excluded.github_updated_at,
			closed_at = excluded.closed_at,
			last_synced_at = excluded.last_synced_at
	`

	_, err = r.db.Exec(query,
		issue.ID, issue.Number, issue.State, issue.Title, userJSON, issue.Body,
		issue.Locked, issue.Comments, assigneeJSON, assigneesJSON, labelsJSON,
		prLinkJSON, repoJSON, issue.GithubCreatedAt, issue.GithubUpdatedAt,
		issue.ClosedAt, issue.LastSyncedAt,
	)

	return err
}

// GetByID retrieves an issue by its upstream id
func (r *IssueRepository) GetByID(id int64) (*models.Issue, error) {
	query := `
		SELECT id, number, state, title, user, body, locked, comments,
			   assignee, assignees, labels, pull_request, repository,
			   github_created_at, github_updated_at, closed_at, last_synced_at
		FROM github_issues WHERE id = ?
	`

	issue := &models.Issue{}
	var userJSON, assigneeJSON, prLinkJSON sql.NullString
	var assigneesJSON, labelsJSON, repoJSON string
	err := r.db.QueryRow(query, id).Scan(
		&issue.ID, &issue.Number, &issue.State, &issue.Title, &userJSON,
		&issue.Body, &issue.Locked, &issue.Comments, &assigneeJSON,
		&assigneesJSON, &labelsJSON, &prLinkJSON, &repoJSON,
		&issue.GithubCreatedAt, &issue.GithubUpdatedAt, &issue.ClosedAt,
		&issue.LastSyncedAt,
	)
	if err != nil {
		return nil, err
	}

	if userJSON.Valid {
		issue.User = &models.ActorRef{}
		if err := fromNullJSON(userJSON, issue.User); err != nil {
			return nil, err
		}
	}
	if assigneeJSON.Valid {
		issue.Assignee = &models.ActorRef{}
		if err := fromNullJSON(assigneeJSON, issue.Assignee); err != nil {
			return nil, err
		}
	}
	if prLinkJSON.Valid {
		issue.PullRequest = &models.PullRequestLinkRef{}
		if err := fromNullJSON(prLinkJSON, issue.PullRequest); err != nil {
			return nil, err
		}
	}
	if err := fromJSON(assigneesJSON, &issue.Assignees); err != nil {
		return nil, err
	}
	if err := fromJSON(labelsJSON, &issue.Labels); err != nil {
		return nil, err
	}
	if err := fromJSON(repoJSON, &issue.Repository); err != nil {
		return nil, err
	}

	return issue, nil
}

// DeleteAll clears the collection (integration removal)
func (r *IssueRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM github_issues`)
	return err
}
