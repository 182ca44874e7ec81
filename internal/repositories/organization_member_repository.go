package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
)

type OrganizationMemberRepository struct {
	db *sql.DB
}

func NewOrganizationMemberRepository(db *sql.DB) *OrganizationMemberRepository {
	return &OrganizationMemberRepository{db: db}
}

// Upsert creates or fully replaces the member keyed by its upstream user id.
// The key is not scoped by organization: a member re-synced under another
// organization overwrites the embedded org ref.
func (r *OrganizationMemberRepository) Upsert(member *models.OrganizationMember) error {
	member.LastSyncedAt = time.Now()

	orgJSON, err := toJSON(member.Organization)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO github_organization_members (
			id, login, organization, role, state, last_synced_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			login = excluded.login,
			organization = excluded.organization,
			role = excluded.role,
			state = excluded.state,
			last_synced_at = excluded.last_synced_at
	`

	_, err = r.db.Exec(query,
		member.ID, member.Login, orgJSON, member.Role, member.State,
		member.LastSyncedAt,
	)

	return err
}

// GetByID retrieves a member by its upstream user id
func (r *OrganizationMemberRepository) GetByID(id int64) (*models.OrganizationMember, error) {
	query := `
		SELECT id, login, organization, role, state, last_synced_at
		FROM github_organization_members WHERE id = ?
	`

	member := &models.OrganizationMember{}
	var orgJSON string
	err := r.db.QueryRow(query, id).Scan(
		&member.ID, &member.Login, &orgJSON, &member.Role, &member.State,
		&member.LastSyncedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := fromJSON(orgJSON, &member.Organization); err != nil {
		return nil, err
	}

	return member, nil
}

// DeleteAll clears the collection (integration removal)
func (r *OrganizationMemberRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM github_organization_members`)
	return err
}
