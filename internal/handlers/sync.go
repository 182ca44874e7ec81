package handlers

import (
	"errors"
	"net/http"

	"github.com/alimgiray/ghmirror/internal/middleware"
	"github.com/alimgiray/ghmirror/internal/services"
	"github.com/gin-gonic/gin"
)

// SyncHandler exposes the mirror sync entry points
type SyncHandler struct {
	syncService *services.SyncService
}

func NewSyncHandler(syncService *services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// FullSync runs a full mirror sync synchronously and returns its summary
func (h *SyncHandler) FullSync(c *gin.Context) {
	summary, err := h.syncService.RunFullSync(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotConnected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "github integration is not connected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "sync completed",
		"summary": summary,
	})
}

// OrganizationSync mirrors one organization by login
func (h *SyncHandler) OrganizationSync(c *gin.Context) {
	login := c.Param("orgName")

	result, err := h.syncService.SyncOrganization(c.Request.Context(), middleware.GetUserID(c), login)
	if err != nil {
		if errors.Is(err, services.ErrNotConnected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "github integration is not connected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "organization sync completed",
		"repositories_seen":   result.RepositoriesSeen,
		"repositories_failed": result.RepositoriesFailed,
	})
}

// RepositorySync mirrors one repository by its owner and name
func (h *SyncHandler) RepositorySync(c *gin.Context) {
	fullName := c.Param("owner") + "/" + c.Param("repo")

	if err := h.syncService.SyncRepository(c.Request.Context(), middleware.GetUserID(c), fullName); err != nil {
		if errors.Is(err, services.ErrNotConnected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "github integration is not connected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "repository sync completed"})
}
