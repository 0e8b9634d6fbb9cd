package sqliteutil

import (
	"database/sql"
	"strings"

	configlibsql "gaafix-backend/lib/configutil/libsql"
)

// OpenDB opens a local sqlite file (or a libsql:// url) and applies the
// given schema. Re-applying a schema that already exists is fine.
func OpenDB(schema, path string) (*sql.DB, error) {
	db, err := configlibsql.Struct{File: path}.OpenDB()
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, err
	}
	return db, nil
}
