package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/alimgiray/ghmirror/internal/middleware"
	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/alimgiray/ghmirror/internal/repositories"
	"github.com/alimgiray/ghmirror/internal/services"
	"github.com/alimgiray/ghmirror/pkg/config"
	"github.com/alimgiray/ghmirror/pkg/logger"
	"github.com/gin-gonic/gin"
)

// AuthHandler drives the GitHub OAuth flow and the integration lifecycle
type AuthHandler struct {
	githubService      *services.GitHubService
	integrationService *services.IntegrationService
	jobRepo            *repositories.JobRepository
}

func NewAuthHandler(
	githubService *services.GitHubService,
	integrationService *services.IntegrationService,
	jobRepo *repositories.JobRepository,
) *AuthHandler {
	return &AuthHandler{
		githubService:      githubService,
		integrationService: integrationService,
		jobRepo:            jobRepo,
	}
}

// GetAuthURL returns the GitHub authorization URL for the calling tenant.
// The timestamp query parameter is required and is folded into the OAuth
// state together with the tenant id, so the callback can recover both.
func (h *AuthHandler) GetAuthURL(c *gin.Context) {
	timestamp := c.Query("timestamp")
	if timestamp == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp is required"})
		return
	}

	userID := middleware.GetUserID(c)

	// A new authorization replaces any existing connection
	if err := h.integrationService.Disconnect(userID); err != nil {
		logger.WithError(err).Warnf("Failed to drop stale integration for user %s", userID)
	}

	state := fmt.Sprintf("%s:%s", userID, timestamp)
	c.JSON(http.StatusOK, gin.H{"auth_url": h.githubService.GetAuthURL(state)})
}

// Callback handles the GitHub OAuth redirect. On success it stores the
// integration and enqueues a full sync in the background, then redirects to
// the web client either way.
func (h *AuthHandler) Callback(c *gin.Context) {
	clientURL := config.AppConfig.Client.URL

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.Redirect(http.StatusFound, clientURL+"?error=missing_code")
		return
	}

	userID, _, ok := strings.Cut(state, ":")
	if !ok || userID == "" {
		c.Redirect(http.StatusFound, clientURL+"?error=invalid_state")
		return
	}

	token, err := h.githubService.ExchangeCodeForToken(c.Request.Context(), code)
	if err != nil {
		logger.WithError(err).Errorf("OAuth token exchange failed for user %s", userID)
		c.Redirect(http.StatusFound, clientURL+"?error=token_exchange_failed")
		return
	}

	githubUser, err := h.githubService.GetUserInfo(c.Request.Context(), token)
	if err != nil {
		logger.WithError(err).Errorf("Fetching GitHub profile failed for user %s", userID)
		c.Redirect(http.StatusFound, clientURL+"?error=user_info_failed")
		return
	}

	if _, err := h.integrationService.Connect(userID, githubUser.Login, token.AccessToken); err != nil {
		logger.WithError(err).Errorf("Storing integration failed for user %s", userID)
		c.Redirect(http.StatusFound, clientURL+"?error=integration_failed")
		return
	}

	job := models.NewJob(userID, models.JobTypeFullSync)
	if err := h.jobRepo.Create(job); err != nil {
		logger.WithError(err).Errorf("Enqueuing initial sync failed for user %s", userID)
	}

	c.Redirect(http.StatusFound, clientURL+"?success=true")
}

// Status reports the tenant's GitHub connection state
func (h *AuthHandler) Status(c *gin.Context) {
	status, err := h.integrationService.Status(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read integration status"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// Remove disconnects the tenant's integration and wipes all mirrored data
func (h *AuthHandler) Remove(c *gin.Context) {
	if err := h.integrationService.Remove(middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove integration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "GitHub integration removed"})
}
