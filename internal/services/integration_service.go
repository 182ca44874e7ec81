package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/alimgiray/ghmirror/internal/repositories"
	"github.com/alimgiray/ghmirror/pkg/logger"
)

// CollectionPurger wipes one mirrored collection
type CollectionPurger interface {
	DeleteAll() error
}

// IntegrationStatus is the connection state reported to the client
type IntegrationStatus struct {
	Connected      bool       `json:"connected"`
	GithubUsername string     `json:"github_username,omitempty"`
	ConnectedAt    *time.Time `json:"connected_at,omitempty"`
	LastSyncedAt   *time.Time `json:"last_synced_at,omitempty"`
}

// IntegrationService manages the lifecycle of a tenant's GitHub connection.
// Removing a connection also wipes every mirrored collection; the integration
// and its data leave together.
type IntegrationService struct {
	integrationRepo *repositories.IntegrationRepository
	purgers         []CollectionPurger
}

func NewIntegrationService(integrationRepo *repositories.IntegrationRepository, purgers ...CollectionPurger) *IntegrationService {
	return &IntegrationService{
		integrationRepo: integrationRepo,
		purgers:         purgers,
	}
}

// Connect stores a freshly authorized integration for the tenant
func (s *IntegrationService) Connect(userID, githubUsername, accessToken string) (*models.Integration, error) {
	integration := models.NewIntegration(userID, githubUsername, accessToken)
	if err := s.integrationRepo.Upsert(integration); err != nil {
		return nil, fmt.Errorf("store integration: %w", err)
	}

	logger.Infof("Connected GitHub integration for user %s as %s", userID, githubUsername)
	return integration, nil
}

// Status reports the tenant's connection state. A missing integration is a
// disconnected status, not an error.
func (s *IntegrationService) Status(userID string) (*IntegrationStatus, error) {
	integration, err := s.integrationRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &IntegrationStatus{Connected: false}, nil
		}
		return nil, err
	}

	connectedAt := integration.ConnectedAt
	return &IntegrationStatus{
		Connected:      integration.IsConnected,
		GithubUsername: integration.GithubUsername,
		ConnectedAt:    &connectedAt,
		LastSyncedAt:   integration.LastSyncedAt,
	}, nil
}

// Disconnect deletes only the integration row, leaving mirrored data in
// place. Used when a fresh authorization is about to replace the connection.
func (s *IntegrationService) Disconnect(userID string) error {
	return s.integrationRepo.Delete(userID)
}

// Remove deletes the tenant's integration and all mirrored data
func (s *IntegrationService) Remove(userID string) error {
	if err := s.integrationRepo.Delete(userID); err != nil {
		return fmt.Errorf("delete integration: %w", err)
	}

	for _, purger := range s.purgers {
		if err := purger.DeleteAll(); err != nil {
			return fmt.Errorf("purge mirrored data: %w", err)
		}
	}

	logger.Infof("Removed GitHub integration and mirrored data for user %s", userID)
	return nil
}
