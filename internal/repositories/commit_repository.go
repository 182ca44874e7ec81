package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
)

type CommitRepository struct {
	db *sql.DB
}

func NewCommitRepository(db *sql.DB) *CommitRepository {
	return &CommitRepository{db: db}
}

// Upsert creates or fully replaces the commit keyed by its SHA, stamping
// last_synced_at. Author/committer account refs stay NULL when GitHub has no
// linked account for them.
func (r *CommitRepository) Upsert(commit *models.Commit) error {
	commit.LastSyncedAt = time.Now()

	var authorJSON, committerJSON *string
	if commit.Author != nil {
		s, err := toJSON(commit.Author)
		if err != nil {
			return err
		}
		authorJSON = &s
	}
	if commit.Committer != nil {
		s, err := toJSON(commit.Committer)
		if err != nil {
			return err
		}
		committerJSON = &s
	}

	if commit.Parents == nil {
		commit.Parents = []models.CommitParentRef{}
	}
	parentsJSON, err := toJSON(commit.Parents)
	if err != nil {
		return err
	}
	repoJSON, err := toJSON(commit.Repository)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO github_commits (
			sha, message, author_name, author_email, author_date,
			committer_name, committer_email, committer_date, author, committer,
			parents, repository, html_url, last_synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sha) DO UPDATE SET
			message = excluded.message,
			author_name = excluded.author_name,
			author_email = excluded.author_email,
			author_date = excluded.author_date,
			committer_name = excluded.committer_name,
			committer_email = excluded.committer_email,
			committer_date = excluded.committer_date,
			author = excluded.author,
			committer = excluded.committer,
			parents = excluded.parents,
			repository = excluded.repository,
			html_url = excluded.html_url,
			last_synced_at = excluded.last_synced_at
	`

	_, err = r.db.Exec(query,
		commit.SHA, commit.Message, commit.AuthorName, commit.AuthorEmail,
		commit.AuthorDate, commit.CommitterName, commit.CommitterEmail,
		commit.CommitterDate, authorJSON, committerJSON, parentsJSON, repoJSON,
		commit.HTMLURL, commit.LastSyncedAt,
	)

	return err
}

// GetBySHA retrieves a commit by its SHA
func (r *CommitRepository) GetBySHA(sha string) (*models.Commit, error) {
	query := `
		SELECT sha, message, author_name, author_email, author_date,
			   committer_name, committer_email, committer_date, author,
			   committer, parents, repository, html_url, last_synced_at
		FROM github_commits WHERE sha = ?
	`

	commit := &models.Commit{}
	var authorJSON, committerJSON sql.NullString
	var parentsJSON, repoJSON string
	err := r.db.QueryRow(query, sha).Scan(
		&commit.SHA, &commit.Message, &commit.AuthorName, &commit.AuthorEmail,
		&commit.AuthorDate, &commit.CommitterName, &commit.CommitterEmail,
		&commit.CommitterDate, &authorJSON, &committerJSON, &parentsJSON,
		&repoJSON, &commit.HTMLURL, &commit.LastSyncedAt,
	)
	if err != nil {
		return nil, err
	}

	if authorJSON.Valid {
		commit.Author = &models.ActorRef{}
		if err := fromNullJSON(authorJSON, commit.Author); err != nil {
			return nil, err
		}
	}
	if committerJSON.Valid {
		commit.Committer = &models.ActorRef{}
		if err := fromNullJSON(committerJSON, commit.Committer); err != nil {
			return nil, err
		}
	}
	if err := fromJSON(parentsJSON, &commit.Parents); err != nil {
		return nil, err
	}
	if err := fromJSON(repoJSON, &commit.Repository); err != nil {
		return nil, err
	}

	return commit, nil
}

// CountByRepositoryID counts mirrored commits belonging to one repository
func (r *CommitRepository) CountByRepositoryID(repoID int64) (int, error) {
	// The repository ref is a JSON column; match on the embedded id.
	query := `SELECT COUNT(*) FROM github_commits WHERE json_extract(repository, '$.id') = ?`
	var count int
	err := r.db.QueryRow(query, repoID).Scan(&count)
	return count, err
}

// DeleteAll clears the collection (integration removal)
func (r *CommitRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM github_commits`)
	return err
}
