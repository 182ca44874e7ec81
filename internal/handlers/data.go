package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alimgiray/ghmirror/internal/repositories"
	"github.com/alimgiray/ghmirror/internal/services"
	"github.com/alimgiray/ghmirror/pkg/logger"
	"github.com/gin-gonic/gin"
)

// DataHandler exposes the discovery API over the mirrored collections
type DataHandler struct {
	collectionRepo *repositories.CollectionRepository
	exportService  *services.ExportService
}

func NewDataHandler(collectionRepo *repositories.CollectionRepository, exportService *services.ExportService) *DataHandler {
	return &DataHandler{
		collectionRepo: collectionRepo,
		exportService:  exportService,
	}
}

// Collections lists the expected mirrored collections against what actually
// exists in the store.
func (h *DataHandler) Collections(c *gin.Context) {
	available, err := h.collectionRepo.ListAvailable()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list collections"})
		return
	}

	existing := make(map[string]bool, len(available))
	for _, name := range available {
		existing[name] = true
	}

	missing := []string{}
	for _, name := range repositories.ExpectedCollections {
		if !existing[name] {
			missing = append(missing, name)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"available": available,
		"expected":  repositories.ExpectedCollections,
		"missing":   missing,
	})
}

// Schema returns the column schema of one collection
func (h *DataHandler) Schema(c *gin.Context) {
	collection := c.Param("collection")

	schema, err := h.collectionRepo.GetSchema(collection)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read schema"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collection": collection,
		"schema":     schema,
	})
}

// Data returns one page of a collection, optionally filtered by a search term
func (h *DataHandler) Data(c *gin.Context) {
	collection := c.Param("collection")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	search := c.Query("search")

	result, err := h.collectionRepo.ListData(collection, page, limit, search)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read collection"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Export streams one collection as an XLSX workbook
func (h *DataHandler) Export(c *gin.Context) {
	collection := c.Param("collection")

	file, err := h.exportService.ExportCollection(collection)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export collection"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", collection))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		logger.WithError(err).Errorf("Failed to stream export of %s", collection)
	}
}
