package repositories

import (
	"database/sql"
	"fmt"
	"strings"
)

// ExpectedCollections is the full set of mirrored collection kinds, in the
// order the discovery API reports them.
var ExpectedCollections = []string{
	"github_integrations",
	"github_organizations",
	"github_repositories",
	"github_commits",
	"github_pull_requests",
	"github_issues",
	"github_issue_changelogs",
	"github_organization_members",
}

// searchableColumns are the columns the data listing's search term is matched
// against, when the collection has them.
var searchableColumns = []string{"name", "login", "title", "description"}

// ColumnSchema describes one column of a mirrored collection
type ColumnSchema struct {
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Unique   bool   `json:"unique"`
}

// Page is one page of a collection listing
type Page struct {
	Data  []map[string]any `json:"data"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Pages int              `json:"pages"`
}

// CollectionRepository answers discovery queries over the mirrored
// collections: which exist, their schemas, and paginated row listings.
type CollectionRepository struct {
	db *sql.DB
}

func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// ListAvailable returns the mirrored collections that exist in the store
func (r *CollectionRepository) ListAvailable() ([]string, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// Exists reports whether a collection is one of the expected mirrored kinds
// and is present in the store.
func (r *CollectionRepository) Exists(collection string) (bool, error) {
	expected := false
	for _, name := range ExpectedCollections {
		if name == collection {
			expected = true
			break
		}
	}
	if !expected {
		return false, nil
	}

	query := `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	var count int
	if err := r.db.QueryRow(query, collection).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetSchema returns the column schema of a collection
func (r *CollectionRepository) GetSchema(collection string) (map[string]ColumnSchema, error) {
	ok, err := r.Exists(collection)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, sql.ErrNoRows
	}

	rows, err := r.db.Query(fmt.Sprintf(`PRAGMA table_info(%q)`, collection))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schema := make(map[string]ColumnSchema)
	for rows.Next() {
		var (
			cid        int
			name       string
			columnType string
			notNull    int
			dflt       sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &columnType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		schema[name] = ColumnSchema{
			Type:     columnType,
			Required: notNull == 1 || pk == 1,
			Unique:   pk == 1,
		}
	}

	return schema, rows.Err()
}

// ListData returns one page of a collection, optionally filtered by a search
// term over the collection's searchable display columns.
func (r *CollectionRepository) ListData(collection string, page, limit int, search string) (*Page, error) {
	ok, err := r.Exists(collection)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, sql.ErrNoRows
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	where, args := r.buildSearchClause(collection, search)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %q%s`, collection, where)
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	dataQuery := fmt.Sprintf(`SELECT * FROM %q%s LIMIT ? OFFSET ?`, collection, where)
	dataArgs := append(append([]any{}, args...), limit, (page-1)*limit)

	rows, err := r.db.Query(dataQuery, dataArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	data := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		record := make(map[string]any, len(columns))
		for i, column := range columns {
			value := values[i]
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			record[column] = value
		}
		data = append(data, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pages := (total + limit - 1) / limit

	return &Page{Data: data, Total: total, Page: page, Limit: limit, Pages: pages}, nil
}

// buildSearchClause builds a WHERE clause matching the search term against
// whichever searchable columns the collection actually has.
func (r *CollectionRepository) buildSearchClause(collection, search string) (string, []any) {
	if search == "" {
		return "", nil
	}

	schema, err := r.GetSchema(collection)
	if err != nil {
		return "", nil
	}

	var clauses []string
	var args []any
	for _, column := range searchableColumns {
		if _, ok := schema[column]; ok {
			clauses = append(clauses, fmt.Sprintf(`%q LIKE ?`, column))
			args = append(args, "%"+search+"%")
		}
	}
	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " OR "), args
}
