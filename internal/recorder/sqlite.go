package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/model"
)

// SQLiteRecorder persists the ResultSet to a SQLite table and serves
// read-back queries over it. One connection per run, closed by the
// caller on every exit path.
type SQLiteRecorder struct {
	db    *sql.DB
	table string
}

// NewSQLiteRecorder opens (or creates) the SQLite database.
func NewSQLiteRecorder(dbPath, tableName string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &PersistenceError{Sink: "sqlite", Err: fmt.Errorf("open %s: %w", dbPath, err)}
	}
	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return &SQLiteRecorder{db: db, table: tableName}, nil
}

func (r *SQLiteRecorder) Name() string { return "sqlite" }

// Save replaces the table's full contents with the ResultSet inside a
// single transaction: either the new dataset lands completely or the
// old one stays.
func (r *SQLiteRecorder) Save(rs *model.ResultSet) error {
	tx, err := r.db.Begin()
	if err != nil {
		return &PersistenceError{Sink: r.Name(), Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, r.table)); err != nil {
		return &PersistenceError{Sink: r.Name(), Err: fmt.Errorf("drop table: %w", err)}
	}

	cols := rs.Columns()
	defs := make([]string, len(cols))
	defs[0] = fmt.Sprintf("%q TEXT", cols[0])
	for i := 1; i < len(cols); i++ {
		defs[i] = fmt.Sprintf("%q REAL", cols[i])
	}
	ddl := fmt.Sprintf(`CREATE TABLE %q (%s)`, r.table, strings.Join(defs, ", "))
	if _, err := tx.Exec(ddl); err != nil {
		return &PersistenceError{Sink: r.Name(), Err: fmt.Errorf("create table: %w", err)}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %q VALUES (%s)`, r.table, placeholders))
	if err != nil {
		return &PersistenceError{Sink: r.Name(), Err: err}
	}
	defer stmt.Close()

	for i := range rs.Records {
		if _, err := stmt.Exec(rs.Values(i)...); err != nil {
			return &PersistenceError{Sink: r.Name(), Err: fmt.Errorf("insert row %d: %w", i, err)}
		}
	}
	if err := tx.Commit(); err != nil {
		return &PersistenceError{Sink: r.Name(), Err: err}
	}
	return nil
}

// Query runs a read query and stringifies the result for display. NULL
// cells come back as the literal "NULL".
func (r *SQLiteRecorder) Query(queryText string) (*QueryResult, error) {
	rows, err := r.db.Query(queryText)
	if err != nil {
		return nil, &PersistenceError{Sink: r.Name(), Err: fmt.Errorf("query %q: %w", queryText, err)}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &PersistenceError{Sink: r.Name(), Err: err}
	}
	res := &QueryResult{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &PersistenceError{Sink: r.Name(), Err: err}
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatScanned(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Sink: r.Name(), Err: err}
	}
	return res, nil
}

func formatScanned(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Close releases the database connection.
func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
