package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
)

type IssueChangelogRepository struct {
	db *sql.DB
}

func NewIssueChangelogRepository(db *sql.DB) *IssueChangelogRepository {
	return &IssueChangelogRepository{db: db}
}

// Upsert creates or fully replaces the changelog entry keyed by its upstream
// event id, stamping last_synced_at.
func (r *IssueChangelogRepository) Upsert(entry *models.IssueChangelogEntry) error {
	entry.LastSyncedAt = time.Now()

	var actorJSON, labelJSON, assigneeJSON, assignerJSON *string
	if entry.Actor != nil {
		s, err := toJSON(entry.Actor)
		if err != nil {
			return err
		}
		actorJSON = &s
	}
	if entry.Label != nil {
		s, err := toJSON(entry.Label)
		if err != nil {
			return err
		}
		labelJSON = &s
	}
	if entry.Assignee != nil {
		s, err := toJSON(entry.Assignee)
		if err != nil {
			return err
		}
		assigneeJSON = &s
	}
	if entry.Assigner != nil {
		s, err := toJSON(entry.Assigner)
		if err != nil {
			return err
		}
		assignerJSON = &s
	}

	query := `
		INSERT INTO github_issue_changelogs (
			id, issue_id, event, commit_id, commit_url, actor, label, assignee,
			assigner, github_created_at, last_synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			issue_id = excluded.issue_id,
			event = excluded.event,
			commit_id = excluded.commit_id,
			commit_url = excluded.commit_url,
			actor = excluded.actor,
			label = excluded.label,
			assignee = excluded.assignee,
			assigner = excluded.assigner,
			github_created_at = excluded.github_created_at,
			last_synced_at = excluded.last_synced_at
	`

	_, err := r.db.Exec(query,
		entry.ID, entry.IssueID, entry.Event, entry.CommitID, entry.CommitURL,
		actorJSON, labelJSON, assigneeJSON, assignerJSON, entry.GithubCreatedAt,
		entry.LastSyncedAt,
	)

	return err
}

// GetByID retrieves a changelog entry by its upstream event id
func (r *IssueChangelogRepository) GetByID(id int64) (*models.IssueChangelogEntry, error) {
	query := `
		SELECT id, issue_id, event, commit_id, commit_url, actor, label,
			   assignee, assigner, github_created_at, last_synced_at
		FROM github_issue_changelogs WHERE id = ?
	`

	entry := &models.IssueChangelogEntry{}
	var actorJSON, labelJSON, assigneeJSON, assignerJSON sql.NullString
	err := r.db.QueryRow(query, id).Scan(
		&entry.ID, &entry.IssueID, &entry.Event, &entry.CommitID,
		&entry.CommitURL, &actorJSON, &labelJSON, &assigneeJSON, &assignerJSON,
		&entry.GithubCreatedAt, &entry.LastSyncedAt,
	)
	if err != nil {
		return nil, err
	}

	if actorJSON.Valid {
		entry.Actor = &models.ActorRef{}
		if err := fromNullJSON(actorJSON, entry.Actor); err != nil {
			return nil, err
		}
	}
	if labelJSON.Valid {
		entry.Label = &models.LabelRef{}
		if err := fromNullJSON(labelJSON, entry.Label); err != nil {
			return nil, err
		}
	}
	if assigneeJSON.Valid {
		entry.Assignee = &models.ActorRef{}
		if err := fromNullJSON(assigneeJSON, entry.Assignee); err != nil {
			return nil, err
		}
	}
	if assignerJSON.Valid {
		entry.Assigner = &models.ActorRef{}
		if err := fromNullJSON(assignerJSON, entry.Assigner); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// ListByIssueID retrieves all changelog entries of one issue
func (r *IssueChangelogRepository) ListByIssueID(issueID int64) ([]*models.IssueChangelogEntry, error) {
	query := `SELECT id FROM github_issue_changelogs WHERE issue_id = ? ORDER BY github_created_at`

	rows, err := r.db.Query(query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var entries []*models.IssueChangelogEntry
	for _, id := range ids {
		entry, err := r.GetByID(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// DeleteAll clears the collection (integration removal)
func (r *IssueChangelogRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM github_issue_changelogs`)
	return err
}
