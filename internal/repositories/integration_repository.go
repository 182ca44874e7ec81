package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
)

type IntegrationRepository struct {
	db *sql.DB
}

func NewIntegrationRepository(db *sql.DB) *IntegrationRepository {
	return &IntegrationRepository{db: db}
}

// Upsert creates or replaces the integration row for a tenant. At most one
// row exists per user id.
func (r *IntegrationRepository) Upsert(integration *models.Integration) error {
	integration.UpdatedAt = time.Now()

	query := `
		INSERT INTO github_integrations (
			user_id, github_username, access_token, is_connected, connected_at,
			last_synced_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			github_username = excluded.github_username,
			access_token = excluded.access_token,
			is_connected = excluded.is_connected,
			connected_at = excluded.connected_at,
			last_synced_at = excluded.last_synced_at,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		integration.UserID, integration.GithubUsername, integration.AccessToken,
		integration.IsConnected, integration.ConnectedAt, integration.LastSyncedAt,
		integration.CreatedAt, integration.UpdatedAt,
	)

	return err
}

// GetByUserID retrieves the integration for a tenant
func (r *IntegrationRepository) GetByUserID(userID string) (*models.Integration, error) {
	query := `
		SELECT user_id, github_username, access_token, is_connected, connected_at,
			   last_synced_at, created_at, updated_at
		FROM github_integrations WHERE user_id = ?
	`

	integration := &models.Integration{}
	err := r.db.QueryRow(query, userID).Scan(
		&integration.UserID, &integration.GithubUsername, &integration.AccessToken,
		&integration.IsConnected, &integration.ConnectedAt, &integration.LastSyncedAt,
		&integration.CreatedAt, &integration.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return integration, nil
}

// StampLastSynced records the completion time of a full sync. Stamped exactly
// once per completed walk, regardless of how many leaf units failed.
func (r *IntegrationRepository) StampLastSynced(userID string, syncedAt time.Time) error {
	query := `
		UPDATE github_integrations SET last_synced_at = ?, updated_at = ?
		WHERE user_id = ?
	`
	_, err := r.db.Exec(query, syncedAt, time.Now(), userID)
	return err
}

// Delete removes the integration for a tenant
func (r *IntegrationRepository) Delete(userID string) error {
	query := `DELETE FROM github_integrations WHERE user_id = ?`
	_, err := r.db.Exec(query, userID)
	return err
}
