package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
)

type PullRequestRepository struct {
	db *sql.DB
}

func NewPullRequestRepository(db *sql.DB) *PullRequestRepository {
	return &PullRequestRepository{db: db}
}

// Upsert creates or fully replaces the pull request keyed by its upstream id,
// stamping last_synced_at.
func (r *PullRequestRepository) Upsert(pr *models.PullRequest) error {
	pr.LastSyncedAt = time.Now()

	var userJSON, assigneeJSON *string
	if pr.User != nil {
		s, err := toJSON(pr.User)
		if err != nil {
			return err
		}
		userJSON = &s
	}
	if pr.Assignee != nil {
		s, err := toJSON(pr.Assignee)
		if err != nil {
			return err
		}
		assigneeJSON = &s
	}

	if pr.Assignees == nil {
		pr.Assignees = []models.ActorRef{}
	}
	if pr.RequestedReviewers == nil {
		pr.RequestedReviewers = []models.ActorRef{}
	}
	if pr.Labels == nil {
		pr.Labels = []models.LabelRef{}
	}
	assigneesJSON, err := toJSON(pr.Assignees)
	if err != nil {
		return err
	}
	reviewersJSON, err := toJSON(pr.RequestedReviewers)
	if err != nil {
		return err
	}
	labelsJSON, err := toJSON(pr.Labels)
	if err != nil {
		return err
	}
	repoJSON, err := toJSON(pr.Repository)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO github_pull_requests (
			id, number, state, title, user, body, draft, merged_at,
			merge_commit_sha, assignee, assignees, requested_reviewers, labels,
			repository, github_created_at, github_updated_at, closed_at,
			last_synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			state = excluded.state,
			title = excluded.title,
			user = excluded.user,
			body = excluded.body,
			draft = excluded.draft,
			merged_at = excluded.merged_at,
			merge_commit_sha = excluded.merge_commit_sha,
			assignee = excluded.assignee,
			assignees = excluded.assignees,
			requested_reviewers = excluded.requested_reviewers,
			labels = excluded.labels,
			repository = excluded.repository,
			github_created_at = excluded.github_created_at,
			github_updated_at = excluded.github_updated_at,
			closed_at = excluded.closed_at,
			last_synced_at = excluded.last_synced_at
	`

	_, err = r.db.Exec(query,
		pr.ID, pr.Number, pr.State, pr.Title, userJSON, pr.Body, pr.Draft,
		pr.MergedAt, pr.MergeCommitSHA, assigneeJSON, assigneesJSON,
		reviewersJSON, labelsJSON, repoJSON, pr.GithubCreatedAt,
		pr.GithubUpdatedAt, pr.ClosedAt, pr.LastSyncedAt,
	)

	return err
}

// GetByID retrieves a pull request by its upstream id
func (r *PullRequestRepository) GetByID(id int64) (*models.PullRequest, error) {
	query := `
		SELECT id, number, state, title, user, body, draft, merged_at,
			   merge_commit_sha, assignee, assignees, requested_reviewers,
			   labels, repository, github_created_at, github_updated_at,
			   closed_at, last_synced_at
		FROM github_pull_requests WHERE id = ?
	`

	pr := &models.PullRequest{}
	var userJSON, assigneeJSON sql.NullString
	var assigneesJSON, reviewersJSON, labelsJSON, repoJSON string
	err := r.db.QueryRow(query, id).Scan(
		&pr.ID, &pr.Number, &pr.State, &pr.Title, &userJSON, &pr.Body,
		&pr.Draft, &pr.MergedAt, &pr.MergeCommitSHA, &assigneeJSON,
		&assigneesJSON, &reviewersJSON, &labelsJSON, &repoJSON,
		&pr.GithubCreatedAt, &pr.GithubUpdatedAt, &pr.ClosedAt, &pr.LastSyncedAt,
	)
	if err != nil {
		return nil, err
	}

	if userJSON.Valid {
		pr.User = &models.ActorRef{}
		if err := fromNullJSON(userJSON, pr.User); err != nil {
			return nil, err
		}
	}
	if assigneeJSON.Valid {
		pr.Assignee = &models.ActorRef{}
		if err := fromNullJSON(assigneeJSON, pr.Assignee); err != nil {
			return nil, err
		}
	}
	if err := fromJSON(assigneesJSON, &pr.Assignees); err != nil {
		return nil, err
	}
	if err := fromJSON(reviewersJSON, &pr.RequestedReviewers); err != nil {
		return nil, err
	}
	if err := fromJSON(labelsJSON, &pr.Labels); err != nil {
		return nil, err
	}
	if err := fromJSON(repoJSON, &pr.Repository); err != nil {
		return nil, err
	}

	return pr, nil
}

// DeleteAll clears the collection (integration removal)
func (r *PullRequestRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM github_pull_requests`)
	return err
}
