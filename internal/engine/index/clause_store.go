package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"inscope/internal/engine/parser"
)

const sqliteDriverName = "sqlite"

// SQLiteClauseStore persists clause signatures per project so lookups
// survive between runs without re-reading every source file.
type SQLiteClauseStore struct {
	db         *sql.DB
	projectKey string
	lookupStmt *sql.Stmt
}

// ClauseRecord is one persisted clause signature.
type ClauseRecord struct {
	Container string
	Name      string
	MinArity  int
	MaxArity  int
	Macro     bool
	Private   bool
	FilePath  string
	Line      int
}

func OpenSQLiteClauseStore(path, projectKey string) (*SQLiteClauseStore, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("clause store path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("clause store path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create clause store directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite clause store %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(4)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite clause store %q: %w", cleanPath, err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS clauses (
  project_key TEXT NOT NULL,
  container   TEXT NOT NULL,
  name        TEXT NOT NULL,
  min_arity   INTEGER NOT NULL,
  max_arity   INTEGER NOT NULL,
  is_macro    INTEGER NOT NULL DEFAULT 0,
  is_private  INTEGER NOT NULL DEFAULT 0,
  file_path   TEXT NOT NULL DEFAULT '',
  line        INTEGER NOT NULL DEFAULT 0,
  ord         INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_clauses_lookup ON clauses(project_key, container);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate clause schema: %w", err)
	}

	key := strings.TrimSpace(projectKey)
	if key == "" {
		key = "default"
	}

	lookupStmt, err := db.Prepare(`SELECT container, name, min_arity, max_arity, is_macro, is_private, file_path, line
FROM clauses
WHERE project_key = ? AND container = ?
ORDER BY ord`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare lookup stmt: %w", err)
	}

	return &SQLiteClauseStore{db: db, projectKey: key, lookupStmt: lookupStmt}, nil
}

// SyncFromIndex replaces the project's rows with the index's current
// containers inside a single transaction.
func (s *SQLiteClauseStore) SyncFromIndex(ix *Index) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store not initialized")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin sync tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM clauses WHERE project_key = ?`, s.projectKey); err != nil {
		return fmt.Errorf("clear project rows: %w", err)
	}

	insert, err := tx.Prepare(`INSERT INTO clauses
  (project_key, container, name, min_arity, max_arity, is_macro, is_private, file_path, line, ord)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = insert.Close() }()

	for name, c := range ix.Containers() {
		for ord, cl := range c.Clauses {
			if _, err := insert.Exec(s.projectKey, name, cl.Name, cl.MinArity, cl.MaxArity,
				boolToInt(cl.Macro), boolToInt(cl.Private), cl.Pos.File, cl.Pos.Line, ord); err != nil {
				return fmt.Errorf("insert clause %s.%s: %w", name, cl.Name, err)
			}
		}
	}

	return tx.Commit()
}

// LookupContainer returns the persisted clause signatures of one container
// in definition order.
func (s *SQLiteClauseStore) LookupContainer(name string) ([]ClauseRecord, error) {
	if s == nil || s.lookupStmt == nil {
		return nil, fmt.Errorf("store not initialized")
	}

	rows, err := s.lookupStmt.Query(s.projectKey, name)
	if err != nil {
		return nil, fmt.Errorf("lookup container %q: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	var out []ClauseRecord
	for rows.Next() {
		var rec ClauseRecord
		var macro, private int
		if err := rows.Scan(&rec.Container, &rec.Name, &rec.MinArity, &rec.MaxArity, &macro, &private, &rec.FilePath, &rec.Line); err != nil {
			return nil, fmt.Errorf("scan clause row: %w", err)
		}
		rec.Macro = macro != 0
		rec.Private = private != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Restore loads every persisted container of the project into a fresh
// parser.File per source path and feeds it to the index.
func (s *SQLiteClauseStore) Restore(ix *Index) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store not initialized")
	}

	rows, err := s.db.Query(`SELECT container, name, min_arity, max_arity, is_macro, is_private, file_path, line
FROM clauses WHERE project_key = ? ORDER BY container, ord`, s.projectKey)
	if err != nil {
		return fmt.Errorf("restore query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files := make(map[string]*parser.File)
	containerOf := make(map[string]map[string]int) // path -> container -> slot
	for rows.Next() {
		var rec ClauseRecord
		var macro, private int
		if err := rows.Scan(&rec.Container, &rec.Name, &rec.MinArity, &rec.MaxArity, &macro, &private, &rec.FilePath, &rec.Line); err != nil {
			return fmt.Errorf("scan restore row: %w", err)
		}

		path := rec.FilePath
		if path == "" {
			path = "<restored>"
		}
		f, ok := files[path]
		if !ok {
			f = &parser.File{Path: path}
			files[path] = f
			containerOf[path] = make(map[string]int)
		}
		slot, ok := containerOf[path][rec.Container]
		if !ok {
			f.Containers = append(f.Containers, parser.Container{Kind: parser.KindModule, Name: rec.Container})
			slot = len(f.Containers) - 1
			containerOf[path][rec.Container] = slot
		}
		f.Containers[slot].Clauses = append(f.Containers[slot].Clauses, parser.Clause{
			Name:     rec.Name,
			MinArity: rec.MinArity,
			MaxArity: rec.MaxArity,
			Macro:    macro != 0,
			Private:  private != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, f := range files {
		ix.AddFile(f)
	}
	return nil
}

func (s *SQLiteClauseStore) Close() error {
	if s == nil {
		return nil
	}
	if s.lookupStmt != nil {
		_ = s.lookupStmt.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
