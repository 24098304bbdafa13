package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mherod/source-parse/internal/indexer"
	"github.com/mherod/source-parse/internal/model"
)

// Test Plan for reporters:
// - text prints one line per record in arrival order
// - json writes one decodable object per line
// - yaml writes one decodable document per record
// - table renders buffered rows on Close with a language column and a total footer
// - unknown formats are rejected
// - Multi fans out and joins close errors
// - Summary prints counts

func sampleClasses() []model.SourceClass {
	return []model.SourceClass{
		model.NewSourceClass("src/Foo.kt", "com.x", "Foo").
			WithImports([]string{"java.io.File"}).
			WithProperties([]model.Property{{Name: "name", Type: "String"}, {Name: "id"}}),
		model.NewSourceClass("src/Baz.java", "p", "Baz"),
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	r, err := New("", &buf)
	require.NoError(t, err)

	for _, c := range sampleClasses() {
		require.NoError(t, r.Report(c))
	}
	require.NoError(t, r.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "SourceClass(file=src/Foo.kt, package=com.x, className=Foo, imports=[java.io.File], properties=[id, name: String])", lines[0])
	assert.Equal(t, "SourceClass(file=src/Baz.java, package=p, className=Baz, imports=[], properties=[])", lines[1])
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(FormatJSON, &buf)
	require.NoError(t, err)

	for _, c := range sampleClasses() {
		require.NoError(t, r.Report(c))
	}
	require.NoError(t, r.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var got model.SourceClass
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, sampleClasses()[0], got)
	assert.Contains(t, lines[1], `"imports":[]`)
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(FormatYAML, &buf)
	require.NoError(t, err)

	for _, c := range sampleClasses() {
		require.NoError(t, r.Report(c))
	}
	require.NoError(t, r.Close())

	dec := yaml.NewDecoder(&buf)
	var first, second model.SourceClass
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, "Foo", first.ClassName)
	assert.Equal(t, []model.Property{{Name: "id"}, {Name: "name", Type: "String"}}, first.Properties)
	assert.Equal(t, "Baz", second.ClassName)
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(FormatTable, &buf)
	require.NoError(t, err)

	for _, c := range sampleClasses() {
		require.NoError(t, r.Report(c))
	}
	assert.Empty(t, buf.String(), "table output is buffered until Close")

	require.NoError(t, r.Close())
	out := buf.String()
	assert.Contains(t, out, "src/Foo.kt")
	assert.Contains(t, out, "name: String")
	assert.Contains(t, out, "Kotlin")
	assert.Contains(t, out, "Java")
	assert.Contains(t, strings.ToLower(out), "total: 2 classes")
	assert.Less(t, strings.Index(out, "src/Foo.kt"), strings.Index(out, "src/Baz.java"))
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

type stubReporter struct {
	seen     []string
	closeErr error
}

func (s *stubReporter) Report(c model.SourceClass) error {
	s.seen = append(s.seen, c.ClassName)
	return nil
}

func (s *stubReporter) Close() error { return s.closeErr }

func TestMulti(t *testing.T) {
	a := &stubReporter{}
	b := &stubReporter{closeErr: errors.New("disk full")}

	m := Multi(a, b)
	for _, c := range sampleClasses() {
		require.NoError(t, m.Report(c))
	}

	assert.Equal(t, []string{"Foo", "Baz"}, a.seen)
	assert.Equal(t, []string{"Foo", "Baz"}, b.seen)
	assert.ErrorContains(t, m.Close(), "disk full")
}

func TestSummary(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	Summary(&buf, &indexer.Stats{FilesScanned: 5, Classes: 3, Skipped: 2, Duration: 1500 * time.Millisecond})

	assert.Equal(t, "✓ Indexed 3 classes from 5 files (2 without a class) in 1.50s\n", buf.String())
}
