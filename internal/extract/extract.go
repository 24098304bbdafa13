// Package extract recovers shallow declarations from source text with
// regular expressions.
//
// This is lexical scraping, not parsing. Keywords inside comments or string
// literals match like any other text, declarations split across lines are
// missed, and only the first class in a file is seen.
package extract

import (
	"regexp"
	"strings"

	"github.com/mherod/source-parse/internal/model"
)

var (
	rePackage  = regexp.MustCompile(`\bpackage\s+(\S+)`)
	reClass    = regexp.MustCompile(`\bclass\s+(\w+)`)
	reImport   = regexp.MustCompile(`\bimport\s+(\S+)`)
	reProperty = regexp.MustCompile(`\bva[lr]\s+(\w+)(?:\s*:\s*(\w+))?`)
)

// Package returns the token following the last package keyword, with any
// trailing semicolons and surrounding whitespace removed.
func Package(text string) (string, bool) {
	matches := rePackage.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	last := matches[len(matches)-1][1]
	pkg := strings.TrimSpace(strings.TrimRight(last, ";"))
	if pkg == "" {
		return "", false
	}
	return pkg, true
}

// ClassName returns the identifier following the first class keyword.
func ClassName(text string) (string, bool) {
	m := reClass.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Imports returns every import token, sorted and without duplicates.
func Imports(text string) []string {
	matches := reImport.FindAllStringSubmatch(text, -1)
	imports := make([]string, 0, len(matches))
	for _, m := range matches {
		imports = append(imports, m[1])
	}
	return model.NormalizeImports(imports)
}

// Properties returns every val/var declaration. The type is only captured
// for the "name: Type" form.
func Properties(text string) []model.Property {
	matches := reProperty.FindAllStringSubmatch(text, -1)
	props := make([]model.Property, 0, len(matches))
	for _, m := range matches {
		if m[1] == "" {
			continue
		}
		props = append(props, model.Property{Name: m[1], Type: m[2]})
	}
	return model.NormalizeProperties(props)
}
