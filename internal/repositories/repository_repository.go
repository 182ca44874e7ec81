package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
)

type RepositoryRepository struct {
	db *sql.DB
}

func NewRepositoryRepository(db *sql.DB) *RepositoryRepository {
	return &RepositoryRepository{db: db}
}

// Upsert creates or fully replaces the repository keyed by its upstream id,
// stamping last_synced_at.
func (r *RepositoryRepository) Upsert(repo *models.Repository) error {
	repo.LastSyncedAt = time.Now()

	ownerJSON, err := toJSON(repo.Owner)
	if err != nil {
		return err
	}
	if repo.Topics == nil {
		repo.Topics = []string{}
	}
	topicsJSON, err := toJSON(repo.Topics)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO github_repositories (
			id, name, full_name, private, owner, description, fork, homepage,
			size, stargazers_count, watchers_count, language, forks_count,
			archived, disabled, open_issues_count, topics, visibility,
			default_branch, github_created_at, github_updated_at,
			github_pushed_at, last_synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			full_name = excluded.full_name,
			private = excluded.private,
			owner = excluded.owner,
			description = excluded.description,
			fork = excluded.fork,
			homepage = excluded.homepage,
			size = excluded.size,
			stargazers_count = excluded.stargazers_count,
			watchers_count = excluded.watchers_count,
			language = excluded.language,
			forks_count = excluded.forks_count,
			archived = excluded.archived,
			disabled = excluded.disabled,
			open_issues_count = excluded.open_issues_count,
			topics = excluded.topics,
			visibility = excluded.visibility,
			default_branch = excluded.default_branch,
			github_created_at = excluded.github_created_at,
			github_updated_at = excluded.github_updated_at,
			github_pushed_at = excluded.github_pushed_at,
			last_synced_at = excluded.last_synced_at
	`

	_, err = r.db.Exec(query,
		repo.ID, repo.Name, repo.FullName, repo.Private, ownerJSON,
		repo.Description, repo.Fork, repo.Homepage, repo.Size,
		repo.StargazersCount, repo.WatchersCount, repo.Language,
		repo.ForksCount, repo.Archived, repo.Disabled, repo.OpenIssuesCount,
		topicsJSON, repo.Visibility, repo.DefaultBranch, repo.GithubCreatedAt,
		repo.GithubUpdatedAt, repo.GithubPushedAt, repo.LastSyncedAt,
	)

	return err
}

// GetByID retrieves a repository by its upstream id
func (r *RepositoryRepository) GetByID(id int64) (*models.Repository, error) {
	query := selectRepository + ` WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByFullName retrieves a repository by its full name
func (r *RepositoryRepository) GetByFullName(fullName string) (*models.Repository, error) {
	query := selectRepository + ` WHERE full_name = ?`
	return r.scanOne(r.db.QueryRow(query, fullName))
}

const selectRepository = `
	SELECT id, name, full_name, private, owner, description, fork, homepage,
		   size, stargazers_count, watchers_count, language, forks_count,
		   archived, disabled, open_issues_count, topics, visibility,
		   default_branch, github_created_at, github_updated_at,
		   github_pushed_at, last_synced_at
	FROM github_repositories`

func (r *RepositoryRepository) scanOne(row *sql.Row) (*models.Repository, error) {
	repo := &models.Repository{}
	var ownerJSON, topicsJSON string
	err := row.Scan(
		&repo.ID, &repo.Name, &repo.FullName, &repo.Private, &ownerJSON,
		&repo.Description, &repo.Fork, &repo.Homepage, &repo.Size,
		&repo.StargazersCount, &repo.WatchersCount, &repo.Language,
		&repo.ForksCount, &repo.Archived, &repo.Disabled, &repo.OpenIssuesCount,
		&topicsJSON, &repo.Visibility, &repo.DefaultBranch, &repo.GithubCreatedAt,
		&repo.GithubUpdatedAt, &repo.GithubPushedAt, &repo.LastSyncedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := fromJSON(ownerJSON, &repo.Owner); err != nil {
		return nil, err
	}
	if err := fromJSON(topicsJSON, &repo.Topics); err != nil {
		return nil, err
	}

	return repo, nil
}

// DeleteAll clears the collection (integration removal)
func (r *RepositoryRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM github_repositories`)
	return err
}
