package store

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mherod/source-parse/internal/model"
)

// Reader loads stored records.
type Reader struct {
	db *sql.DB
}

// NewReader creates a Reader over db.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Classes returns every stored record ordered by file path.
func (r *Reader) Classes() ([]model.SourceClass, error) {
	rows, err := sq.Select("file_path", "package", "class_name").
		From("classes").
		OrderBy("file_path").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}

	var classes []model.SourceClass
	byFile := map[string]int{}
	for rows.Next() {
		var file, pkg, name string
		if err := rows.Scan(&file, &pkg, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan class row: %w", err)
		}
		byFile[file] = len(classes)
		classes = append(classes, model.NewSourceClass(file, pkg, name))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate classes: %w", err)
	}
	rows.Close()

	imports, err := r.imports()
	if err != nil {
		return nil, err
	}
	props, err := r.properties()
	if err != nil {
		return nil, err
	}

	for file, i := range byFile {
		classes[i] = classes[i].WithImports(imports[file]).WithProperties(props[file])
	}
	return classes, nil
}

// RunCount returns how many scan runs have been recorded.
func (r *Reader) RunCount() (int, error) {
	var n int
	err := sq.Select("COUNT(*)").From("scan_runs").RunWith(r.db).QueryRow().Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count scan runs: %w", err)
	}
	return n, nil
}

func (r *Reader) imports() (map[string][]string, error) {
	rows, err := sq.Select("file_path", "import_path").From("class_imports").RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer rows.Close()

	out := map[string][]string{}
	for rows.Next() {
		var file, imp string
		if err := rows.Scan(&file, &imp); err != nil {
			return nil, fmt.Errorf("failed to scan import row: %w", err)
		}
		out[file] = append(out[file], imp)
	}
	return out, rows.Err()
}

func (r *Reader) properties() (map[string][]model.Property, error) {
	rows, err := sq.Select("file_path", "name", "property_type").From("class_properties").RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	out := map[string][]model.Property{}
	for rows.Next() {
		var file string
		var p model.Property
		if err := rows.Scan(&file, &p.Name, &p.Type); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		out[file] = append(out[file], p)
	}
	return out, rows.Err()
}
