package store

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mherod/source-parse/internal/model"
)

// Writer stores records for one scan run. It satisfies report.Reporter so
// it can sit next to the stdout reporter.
type Writer struct {
	db      *sql.DB
	runID   string
	classes int
}

// NewWriter registers a new scan run for root and returns its writer.
// An empty runID gets a fresh UUID.
func NewWriter(db *sql.DB, root, runID string) (*Writer, error) {
	if runID == "" {
		runID = uuid.New().String()
	}
	w := &Writer{db: db, runID: runID}

	_, err := sq.Insert("scan_runs").
		Columns("run_id", "root", "started_at").
		Values(w.runID, root, time.Now().UTC().Format(time.RFC3339)).
		RunWith(db).
		Exec()
	if err != nil {
		return nil, fmt.Errorf("failed to register scan run: %w", err)
	}

	return w, nil
}

// RunID identifies the scan run this writer records.
func (w *Writer) RunID() string {
	return w.runID
}

// Report replaces any stored record for the same file.
func (w *Writer) Report(class model.SourceClass) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"class_imports", "class_properties"} {
		if _, err := sq.Delete(table).Where(sq.Eq{"file_path": class.File}).RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to clear %s for %s: %w", table, class.File, err)
		}
	}

	_, err = sq.Insert("classes").
		Columns("file_path", "package", "class_name", "language", "run_id", "indexed_at").
		Values(class.File, class.Package, class.ClassName, class.Language(), w.runID, time.Now().UTC().Format(time.RFC3339)).
		Options("OR REPLACE").
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to write class %s: %w", class.File, err)
	}

	if len(class.Imports) > 0 {
		insert := sq.Insert("class_imports").Columns("file_path", "import_path")
		for _, imp := range class.Imports {
			insert = insert.Values(class.File, imp)
		}
		if _, err := insert.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to write imports for %s: %w", class.File, err)
		}
	}

	if len(class.Properties) > 0 {
		insert := sq.Insert("class_properties").Columns("file_path", "name", "property_type")
		for _, p := range class.Properties {
			insert = insert.Values(class.File, p.Name, p.Type)
		}
		if _, err := insert.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to write properties for %s: %w", class.File, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit class %s: %w", class.File, err)
	}

	w.classes++
	return nil
}

// Prune deletes every stored record that this run did not report, so the
// database mirrors the tree as of this run. Call it only after a scan that
// walked the whole tree; a partial run would drop records it never reached.
func (w *Writer) Prune() (int64, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stale := sq.Expr("file_path IN (SELECT file_path FROM classes WHERE run_id <> ?)", w.runID)
	for _, table := range []string{"class_imports", "class_properties"} {
		_, err := sq.Delete(table).Where(stale).RunWith(tx).Exec()
		if err != nil {
			return 0, fmt.Errorf("failed to prune %s: %w", table, err)
		}
	}

	res, err := sq.Delete("classes").Where(sq.NotEq{"run_id": w.runID}).RunWith(tx).Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to prune classes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned classes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}
	return n, nil
}

// Close marks the scan run finished. It does not close the database.
func (w *Writer) Close() error {
	_, err := sq.Update("scan_runs").
		Set("finished_at", time.Now().UTC().Format(time.RFC3339)).
		Set("classes", w.classes).
		Where(sq.Eq{"run_id": w.runID}).
		RunWith(w.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to finish scan run %s: %w", w.runID, err)
	}
	return nil
}
