package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mherod/source-parse/internal/model"
)

// tableReporter buffers rows and renders them on Close, keeping arrival order.
type tableReporter struct {
	tbl  table.Writer
	rows int
}

func newTableReporter(w io.Writer) *tableReporter {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Language", "Package", "Class", "Imports", "Properties"})
	return &tableReporter{tbl: tbl}
}

func (r *tableReporter) Report(class model.SourceClass) error {
	props := make([]string, len(class.Properties))
	for i, p := range class.Properties {
		props[i] = p.String()
	}
	r.tbl.AppendRow(table.Row{
		class.File,
		class.Language(),
		class.Package,
		class.ClassName,
		strings.Join(class.Imports, "\n"),
		strings.Join(props, "\n"),
	})
	r.rows++
	return nil
}

func (r *tableReporter) Close() error {
	r.tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d classes", r.rows)})
	r.tbl.Render()
	return nil
}
