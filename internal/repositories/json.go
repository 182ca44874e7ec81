package repositories

import (
	"database/sql"
	"encoding/json"
)

// Nested refs and lists are stored as JSON TEXT columns. Optional refs are
// NULL when absent so a missing sub-object stays distinguishable from an
// empty one.

// toJSON marshals a ref or list into its column value
func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// fromJSON unmarshals a required JSON column into dst
func fromJSON(s string, dst any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}

// fromNullJSON unmarshals a nullable JSON column into dst, leaving dst
// untouched for NULL.
func fromNullJSON(s sql.NullString, dst any) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}
