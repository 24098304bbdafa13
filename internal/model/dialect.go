package model

import (
	"path/filepath"
	"strings"

	"github.com/src-d/enry/v2"
)

// Dialect is a recognised source file kind.
type Dialect struct {
	Extension string // with leading dot, e.g. ".kt"
	Language  string
	// Hydrate marks dialects whose records get imports and properties.
	Hydrate bool
}

// Kotlin files are fully hydrated; Java files only get package and class.
var (
	Kotlin = newDialect(".kt", "Kotlin", true)
	Java   = newDialect(".java", "Java", false)
)

var dialects = []Dialect{Kotlin, Java}

func newDialect(ext, fallback string, hydrate bool) Dialect {
	lang, _ := enry.GetLanguageByExtension("file" + ext)
	if lang == "" {
		lang = fallback
	}
	return Dialect{Extension: ext, Language: lang, Hydrate: hydrate}
}

// Dialects returns every built-in dialect.
func Dialects() []Dialect {
	out := make([]Dialect, len(dialects))
	copy(out, dialects)
	return out
}

// DialectFor returns the dialect whose extension the file name ends with.
func DialectFor(name string) (Dialect, bool) {
	base := filepath.Base(name)
	for _, d := range dialects {
		if strings.HasSuffix(base, d.Extension) {
			return d, true
		}
	}
	return Dialect{}, false
}

// DialectForExtension looks a dialect up by its extension (".kt" or "kt").
func DialectForExtension(ext string) (Dialect, bool) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, d := range dialects {
		if d.Extension == ext {
			return d, true
		}
	}
	return Dialect{}, false
}
