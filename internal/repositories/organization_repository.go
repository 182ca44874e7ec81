package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
)

type OrganizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Upsert creates or fully replaces the organization keyed by its upstream id,
// stamping last_synced_at.
func (r *OrganizationRepository) Upsert(org *models.Organization) error {
	org.LastSyncedAt = time.Now()

	query := `
		INSERT INTO github_organizations (
			id, login, url, description, name, company, blog, location, email,
			twitter_username, is_verified, has_organization_projects,
			has_repository_projects, public_repos, public_gists, followers,
			following, github_created_at, github_updated_at, last_synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			login = excluded.login,
			url = excluded.url,
			description = excluded.description,
			name = excluded.name,
			company = excluded.company,
			blog = excluded.blog,
			location = excluded.location,
			email = excluded.email,
			twitter_username = excluded.twitter_username,
			is_verified = excluded.is_verified,
			has_organization_projects = excluded.has_organization_projects,
			has_repository_projects = excluded.has_repository_projects,
			public_repos = excluded.public_repos,
			public_gists = excluded.public_gists,
			followers = excluded.followers,
			following = excluded.following,
			github_created_at = excluded.github_created_at,
			github_updated_at = excluded.github_updated_at,
			last_synced_at = excluded.last_synced_at
	`

	_, err := r.db.Exec(query,
		org.ID, org.Login, org.URL, org.Description, org.Name, org.Company,
		org.Blog, org.Location, org.Email, org.TwitterUsername, org.IsVerified,
		org.HasOrganizationProjects, org.HasRepositoryProjects, org.PublicRepos,
		org.PublicGists, org.Followers, org.Following, org.GithubCreatedAt,
		org.GithubUpdatedAt, org.LastSyncedAt,
	)

	return err
}

// GetByID retrieves an organization by its upstream id
func (r *OrganizationRepository) GetByID(id int64) (*models.Organization, error) {
	query := `
		SELECT id, login, url, description, name, company, blog, location, email,
			   twitter_username, is_verified, has_organization_projects,
			   has_repository_projects, public_repos, public_gists, followers,
			   following, github_created_at, github_updated_at, last_synced_at
		FROM github_organizations WHERE id = ?
	`

	org := &models.Organization{}
	err := r.db.QueryRow(query, id).Scan(
		&org.ID, &org.Login, &org.URL, &org.Description, &org.Name, &org.Company,
		&org.Blog, &org.Location, &org.Email, &org.TwitterUsername, &org.IsVerified,
		&org.HasOrganizationProjects, &org.HasRepositoryProjects, &org.PublicRepos,
		&org.PublicGists, &org.Followers, &org.Following, &org.GithubCreatedAt,
		&org.GithubUpdatedAt, &org.LastSyncedAt,
	)

	if err != nil {
		return nil, err
	}

	return org, nil
}

// DeleteAll clears the collection (integration removal)
func (r *OrganizationRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM github_organizations`)
	return err
}
