package store

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// sqlitePragmas run on every new connection. busy_timeout makes a writer
// wait for the lock instead of failing with SQLITE_BUSY; WAL lets readers
// proceed while a writer holds it.
var sqlitePragmas = []string{"busy_timeout(5000)", "journal_mode(WAL)"}

// OpenSQLite opens (or creates) a SQLite database at the given path.
func OpenSQLite(path string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	return db, nil
}

// sqliteDSN appends the pragmas as _pragma query parameters, which the
// driver applies to each connection it opens.
func sqliteDSN(path string) string {
	var b strings.Builder
	b.WriteString(path)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}
