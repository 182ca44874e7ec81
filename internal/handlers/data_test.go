package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/alimgiray/ghmirror/internal/repositories"
	"github.com/alimgiray/ghmirror/internal/services"
	"github.com/alimgiray/ghmirror/pkg/database"
	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDataRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunSQLScripts(db, "../../migrations"))

	collectionRepo := repositories.NewCollectionRepository(db)
	handler := NewDataHandler(collectionRepo, services.NewExportService(collectionRepo))

	router := gin.New()
	router.GET("/collections", handler.Collections)
	router.GET("/schema/:collection", handler.Schema)
	router.GET("/data/:collection", handler.Data)
	router.GET("/export/:collection", handler.Export)
	return router, db
}

func TestDataHandler(t *testing.T) {
	t.Run("Collections reports expected against available", func(t *testing.T) {
		router, _ := newDataRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/collections", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Available []string `json:"available"`
			Expected  []string `json:"expected"`
			Missing   []string `json:"missing"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.ElementsMatch(t, repositories.ExpectedCollections, body.Expected)
		assert.Empty(t, body.Missing)
	})

	t.Run("Unknown collection is a 404", func(t *testing.T) {
		router, _ := newDataRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/schema/not_a_collection", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data/not_a_collection", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Data listing returns stored rows", func(t *testing.T) {
		router, db := newDataRouter(t)

		orgRepo := repositories.NewOrganizationRepository(db)
		require.NoError(t, orgRepo.Upsert(&models.Organization{ID: 301, Login: "acme", URL: "https://github.com/acme"}))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data/github_organizations?page=1&limit=10", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var page repositories.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 1, page.Total)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "acme", page.Data[0]["login"])
	})

	t.Run("Export streams a workbook", func(t *testing.T) {
		router, db := newDataRouter(t)

		orgRepo := repositories.NewOrganizationRepository(db)
		require.NoError(t, orgRepo.Upsert(&models.Organization{ID: 301, Login: "acme", URL: "https://github.com/acme"}))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export/github_organizations", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "github_organizations.xlsx")
		assert.NotZero(t, w.Body.Len())
	})
}
